package prompts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"promptversioning-backend/internal/api/v1/prompts"
	"promptversioning-backend/internal/auth"
	"promptversioning-backend/internal/middleware"
	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/repository"
	"promptversioning-backend/internal/services"
	"promptversioning-backend/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	editor = &models.User{ID: 1, Username: "editor", Role: models.RoleEditor}
	viewer = &models.User{ID: 2, Username: "viewer", Role: models.RoleUser}
)

type testServer struct {
	mr       *miniredis.Miniredis
	versions *services.VersioningService
	handler  *prompts.Handler
	tplRepo  repository.TemplateRepository
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	utils.RegisterValidators()

	tplRepo := repository.NewGormTemplateRepository(db)
	promptRepo := repository.NewGormPromptRepository(db)
	vs := services.NewVersioningService(tplRepo, promptRepo)
	ps := services.NewPromptService(promptRepo, tplRepo, vs, client)
	return &testServer{mr: mr, versions: vs, handler: prompts.NewHandler(ps), tplRepo: tplRepo}
}

func (s *testServer) do(t *testing.T, user *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("user", *user)
		}
	})
	r.Use(middleware.Authorization(middleware.TemplateOwners(s.tplRepo)))
	prompts.RegisterRoutes(r.Group("/api/v1"), s.handler)

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedTemplate(t *testing.T, content string) *models.Template {
	t.Helper()
	tpl, err := s.versions.CreateTemplate(context.Background(), auth.NewUserContext(editor, nil), "greeting", content)
	require.NoError(t, err)
	return tpl
}

func TestCreatePrompt(t *testing.T) {
	s := setupTestServer(t)
	tpl := s.seedTemplate(t, "Hello {{userName}}, welcome to {{company}}")

	w := s.do(t, viewer, http.MethodPost, "/api/v1/prompts", prompts.CreatePromptRequest{
		Name:       "welcome",
		TemplateID: tpl.ID,
		Parameters: map[string]interface{}{"userName": "Ada", "company": "Acme"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data models.Prompt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "1.0.0", resp.Data.TemplateVersion)
	assert.Equal(t, "2", resp.Data.CreatedBy)
	assert.Equal(t, "Ada", resp.Data.Parameters["userName"])
}

func TestCreatePrompt_ParameterErrors(t *testing.T) {
	s := setupTestServer(t)
	tpl := s.seedTemplate(t, "Hello {{userName}}, welcome to {{company}}")

	tests := []struct {
		name       string
		version    string
		parameters map[string]interface{}
		expected   int
	}{
		{"missing value", "", map[string]interface{}{"userName": "Ada"}, http.StatusBadRequest},
		{"unknown parameter", "", map[string]interface{}{"userName": "Ada", "company": "Acme", "extra": "x"}, http.StatusBadRequest},
		{"badly named parameter", "", map[string]interface{}{"User_Name": "Ada"}, http.StatusBadRequest},
		{"malformed version", "1.0", map[string]interface{}{"userName": "Ada", "company": "Acme"}, http.StatusBadRequest},
		{"unknown version", "3.0.0", map[string]interface{}{"userName": "Ada", "company": "Acme"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, editor, http.MethodPost, "/api/v1/prompts", prompts.CreatePromptRequest{
				Name:            "welcome",
				TemplateID:      tpl.ID,
				TemplateVersion: tt.version,
				Parameters:      tt.parameters,
			})
			assert.Equal(t, tt.expected, w.Code, w.Body.String())
		})
	}
}

func TestCreatePrompt_Unauthenticated(t *testing.T) {
	s := setupTestServer(t)
	tpl := s.seedTemplate(t, "Hello {{userName}}")

	w := s.do(t, nil, http.MethodPost, "/api/v1/prompts", prompts.CreatePromptRequest{
		Name:       "welcome",
		TemplateID: tpl.ID,
		Parameters: map[string]interface{}{"userName": "Ada"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetAndListPrompts(t *testing.T) {
	s := setupTestServer(t)
	tpl := s.seedTemplate(t, "Hello {{userName}}")

	for _, name := range []string{"first", "second"} {
		w := s.do(t, editor, http.MethodPost, "/api/v1/prompts", prompts.CreatePromptRequest{
			Name:       name,
			TemplateID: tpl.ID,
			Parameters: map[string]interface{}{"userName": "Ada"},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(t, viewer, http.MethodGet, "/api/v1/prompts?template_id="+tpl.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data prompts.PromptListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 2, list.Data.Total)

	id := list.Data.Items[0].ID
	w = s.do(t, viewer, http.MethodGet, "/api/v1/prompts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, s.mr.Exists(services.PromptCacheKeyPrefix+id))

	w = s.do(t, viewer, http.MethodGet, "/api/v1/prompts/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, viewer, http.MethodGet, "/api/v1/prompts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
