package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"promptversioning-backend/internal/auth"
	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/repository"
	"promptversioning-backend/internal/services"
	"promptversioning-backend/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test_secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func generateTestToken(userID uint, role string, expired bool) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	if expired {
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tString, _ := token.SignedString([]byte(testSecret))
	return tString
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	client := setupTestRedis(t)

	user := models.User{Username: "ada", Password: "x", Role: models.RoleEditor}
	require.NoError(t, db.Create(&user).Error)

	users := services.NewUserService(db, client, testSecret)
	denylist := services.NewTokenDenylist(client)

	revoked := generateTestToken(user.ID, user.Role, false) + "x"
	require.NoError(t, denylist.Add(context.Background(), revoked, time.Hour))

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Missing Authorization Header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "authorization header is required",
		},
		{
			name:           "Invalid Token Format",
			authHeader:     "InvalidToken",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "bearer token not found",
		},
		{
			name:           "Invalid Token Signature",
			authHeader:     "Bearer invalid.token.signature",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid or expired token",
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + generateTestToken(user.ID, user.Role, true),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid or expired token",
		},
		{
			name:           "Revoked Token",
			authHeader:     "Bearer " + revoked,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Token has been revoked",
		},
		{
			name:           "Unknown User",
			authHeader:     "Bearer " + generateTestToken(999, models.RoleUser, false),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "User not found",
		},
		{
			name:           "Valid Token",
			authHeader:     "Bearer " + generateTestToken(user.ID, user.Role, false),
			expectedStatus: http.StatusOK,
			expectedBody:   "ada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(AuthMiddleware(users, denylist))
			r.GET("/test", func(c *gin.Context) {
				u := c.MustGet("user").(models.User)
				c.String(http.StatusOK, u.Username)
			})

			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus != http.StatusOK {
				var resp utils.Response
				err := json.Unmarshal(w.Body.Bytes(), &resp)
				assert.NoError(t, err)
				assert.Contains(t, resp.Message, tt.expectedBody)
			} else {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestAuthorizationBuildsUserContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	repo := repository.NewGormTemplateRepository(db)

	tpl := &models.Template{Name: "greeting", Content: "Hi", Version: "1.0.0", CreatedBy: "7"}
	require.NoError(t, repo.Create(context.Background(), tpl))

	run := func(user *models.User) auth.AuthContext {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
		if user != nil {
			c.Set("user", *user)
		}
		Authorization(TemplateOwners(repo))(c)
		return CurrentAuth(c)
	}

	anon := run(nil)
	assert.False(t, anon.IsAuthenticated())

	owner := run(&models.User{ID: 7, Role: models.RoleUser})
	assert.True(t, owner.IsAuthenticated())
	assert.Equal(t, "7", owner.UserID())
	assert.True(t, owner.HasPermission(auth.Permission{Action: auth.ActionUpdate, Resource: "template", ResourceID: tpl.ID}))

	other := run(&models.User{ID: 8, Role: models.RoleUser})
	assert.False(t, other.HasPermission(auth.Permission{Action: auth.ActionUpdate, Resource: "template", ResourceID: tpl.ID}))
	assert.True(t, other.HasPermission(auth.Permission{Action: auth.ActionRead, Resource: "template", ResourceID: tpl.ID}))
}

func TestCurrentAuthDefaultsToAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, CurrentAuth(c).IsAuthenticated())
}
