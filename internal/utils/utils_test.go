package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptversioning-backend/internal/versioning"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("test_secret", 7, "editor")
	require.NoError(t, err)

	claims, err := ValidateToken("test_secret", token)
	require.NoError(t, err)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "editor", claims["role"])

	_, err = ValidateToken("other_secret", token)
	assert.Error(t, err)

	_, err = GenerateToken("", 7, "editor")
	assert.Error(t, err)
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"authentication", &versioning.AuthenticationError{}, http.StatusUnauthorized},
		{"permission", &versioning.PermissionDeniedError{Action: "update"}, http.StatusForbidden},
		{"validation", &versioning.ValidationError{Field: "name"}, http.StatusBadRequest},
		{"not found", &versioning.NotFoundError{Resource: "template", ID: "x"}, http.StatusNotFound},
		{"not found inside transaction", &versioning.TransactionError{Op: "create_version", Err: &versioning.NotFoundError{}}, http.StatusNotFound},
		{"bare transaction failure", &versioning.TransactionError{Op: "create_version", Err: errors.New("disk full")}, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFromError(tt.err))
		})
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, errors.New("sql: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Message)
	assert.Len(t, c.Errors, 1)
}

type parametersRequest struct {
	Version    string                 `json:"version" binding:"required,semver"`
	Parameters map[string]interface{} `json:"parameters" binding:"omitempty,dive,keys,parametername,endkeys"`
}

func TestBindAndValidateCustomTags(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	tests := []struct {
		name  string
		body  string
		ok    bool
		field string
	}{
		{"valid", `{"version":"1.0.0","parameters":{"userName":"Ada"}}`, true, ""},
		{"bad version", `{"version":"1.0","parameters":{}}`, false, "version"},
		{"bad parameter name", `{"version":"1.0.0","parameters":{"User_Name":"Ada"}}`, false, ""},
		{"malformed", `{"version":`, false, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req parametersRequest
			ok := BindAndValidate(c, &req)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Data ValidationErrorData `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Data.Errors)
			if tt.field != "" {
				assert.Equal(t, tt.field, resp.Data.Errors[0].Field)
			}
		})
	}
}
