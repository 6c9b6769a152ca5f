package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/hash"
	"blogcore/internal/models"
)

func seedProfileUser(t *testing.T, db *gorm.DB, password string) models.User {
	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Username: "alice", Email: "alice@example.com", FullName: "Alice A", PasswordHash: pwHash, Role: core.RoleAuthor}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestMe(t *testing.T) {
	db := initTestDB(t)
	h := &UserHandler{DB: db}
	e := echo.New()

	user := seedProfileUser(t, db, "password")

	c, rec := jsonContext(t, e, http.MethodGet, "/users/me", nil)
	withSubject(c, core.Subject{ID: user.ID, Username: user.Username, Role: user.Role})
	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "alice", got.Username)
	require.NotContains(t, rec.Body.String(), user.PasswordHash)
}

func TestChangePassword(t *testing.T) {
	db := initTestDB(t)
	h := &UserHandler{DB: db}
	e := echo.New()

	user := seedProfileUser(t, db, "old-password")
	subject := core.Subject{ID: user.ID, Username: user.Username, Role: user.Role}

	c, _ := jsonContext(t, e, http.MethodPost, "/users/password", map[string]string{
		"old_password": "wrong",
		"new_password": "new-password",
	})
	withSubject(c, subject)
	err := h.ChangePassword(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)

	c, rec := jsonContext(t, e, http.MethodPost, "/users/password", map[string]string{
		"old_password": "old-password",
		"new_password": "new-password",
	})
	withSubject(c, subject)
	require.NoError(t, h.ChangePassword(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.True(t, hash.CheckPassword(reloaded.PasswordHash, "new-password"))
	require.False(t, hash.CheckPassword(reloaded.PasswordHash, "old-password"))
}

func TestUpdateAccount(t *testing.T) {
	db := initTestDB(t)
	h := &UserHandler{DB: db}
	e := echo.New()

	user := seedProfileUser(t, db, "password")
	subject := core.Subject{ID: user.ID, Username: user.Username, Role: user.Role}

	c, rec := jsonContext(t, e, http.MethodPatch, "/users/me", map[string]string{
		"full_name": "Alice Updated",
		"bio":       "writes about go",
	})
	withSubject(c, subject)
	require.NoError(t, h.UpdateAccount(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Alice Updated", got.FullName)
	require.Equal(t, "writes about go", got.Bio)

	// Someone else's email cannot be claimed.
	require.NoError(t, db.Create(&models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: core.RoleReader}).Error)
	c, _ = jsonContext(t, e, http.MethodPatch, "/users/me", map[string]string{
		"email": "bob@example.com",
	})
	withSubject(c, subject)
	err := h.UpdateAccount(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)
}
