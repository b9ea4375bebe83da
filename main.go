package main

import "promptversioning-backend/cmd"

// @title promptversioning-backend API
// @version 1.0
// @description Versioned prompt templates with compatibility analysis.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	cmd.Execute()
}
