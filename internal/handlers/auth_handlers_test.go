package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/hash"
	"blogcore/internal/models"
	"blogcore/internal/service/token"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Blog{}, &models.Category{}, &models.Comment{}, &models.Like{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newAuthHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	db := initTestDB(t)
	tokenSvc := &token.TokenService{DB: db, JWTSecret: []byte("jwt-secret"), RefreshSecret: []byte("refresh-secret")}
	return &AuthHandler{DB: db, Tokens: tokenSvc}, db
}

func jsonContext(t *testing.T, e *echo.Echo, method, target string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister(t *testing.T) {
	h, _ := newAuthHandler(t)
	e := echo.New()

	c, rec := jsonContext(t, e, http.MethodPost, "/register", map[string]string{
		"username": "test_user",
		"email":    "test@example.com",
		"password": "password",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "test_user", user.Username)
	require.Equal(t, core.RoleReader, user.Role)
	require.NotEmpty(t, user.ID)

	// Duplicate registration is rejected.
	c, _ = jsonContext(t, e, http.MethodPost, "/register", map[string]string{
		"username": "test_user",
		"email":    "test@example.com",
		"password": "password",
	})
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestLoginAndRefresh(t *testing.T) {
	h, db := newAuthHandler(t)
	e := echo.New()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	user := models.User{Username: "test_user", Email: "test@example.com", PasswordHash: pwHash, Role: core.RoleReader}
	require.NoError(t, db.Create(&user).Error)

	c, rec := jsonContext(t, e, http.MethodPost, "/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.AccessToken)
	require.NotEmpty(t, loginResp.RefreshToken)

	// Rotate once.
	c, rec = jsonContext(t, e, http.MethodPost, "/refresh", map[string]string{
		"refresh_token": loginResp.RefreshToken,
	})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Replaying the consumed refresh token is Unauthorized.
	c, _ = jsonContext(t, e, http.MethodPost, "/refresh", map[string]string{
		"refresh_token": loginResp.RefreshToken,
	})
	err = h.Refresh(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

// Logout from a Bearer-header client must still revoke the refresh token.
func TestLogoutWithBearerHeader(t *testing.T) {
	h, db := newAuthHandler(t)
	e := echo.New()
	ctx := context.Background()

	user := models.User{Username: "test_user", Email: "test@example.com", PasswordHash: "x", Role: core.RoleReader}
	require.NoError(t, db.Create(&user).Error)
	pair, err := h.Tokens.Issue(ctx, &user)
	require.NoError(t, err)

	c, rec := jsonContext(t, e, http.MethodPost, "/logout", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+pair.AccessToken)
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = h.Tokens.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestLoginWrongPassword(t *testing.T) {
	h, db := newAuthHandler(t)
	e := echo.New()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Username: "test_user", Email: "t@example.com", PasswordHash: pwHash, Role: core.RoleReader}).Error)

	c, _ := jsonContext(t, e, http.MethodPost, "/login", map[string]string{
		"username": "test_user",
		"password": "wrong",
	})
	err = h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
