package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/models"
	"blogcore/internal/service/identity"
	"blogcore/internal/service/moderation"
	"blogcore/internal/store"
)

func newBlogHandler(t *testing.T) (*BlogHandler, *gorm.DB) {
	db := initTestDB(t)
	mod := &moderation.Service{
		Store:    store.NewGormStore(db),
		Identity: &identity.Resolver{DB: db},
	}
	return &BlogHandler{Mod: mod}, db
}

func withSubject(c echo.Context, s core.Subject) { c.Set("subject", s) }

func TestCreateAndGetBlog(t *testing.T) {
	h, db := newBlogHandler(t)
	e := echo.New()

	author := models.User{Username: "alice", Email: "a@example.com", PasswordHash: "x", Role: core.RoleReader}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&models.Category{Name: "tech", Permalink: "tech", Description: "d", Status: "approved", AuthorID: author.ID, Version: 1}).Error)

	c, rec := jsonContext(t, e, http.MethodPost, "/blogs", map[string]any{
		"title":    "Hello World",
		"content":  "body",
		"category": "tech",
	})
	withSubject(c, core.Subject{ID: author.ID, Username: "alice", Role: core.RoleReader})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var blog models.Blog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blog))
	require.Equal(t, "pending", blog.Status)
	require.Equal(t, "hello-world", blog.Permalink)

	// Anonymous read of a pending blog: not found.
	c, _ = jsonContext(t, e, http.MethodGet, "/blogs/hello-world", nil)
	c.SetParamNames("permalink")
	c.SetParamValues("hello-world")
	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)

	// The owner sees it regardless of state.
	c, rec = jsonContext(t, e, http.MethodGet, "/blogs/hello-world", nil)
	c.SetParamNames("permalink")
	c.SetParamValues("hello-world")
	withSubject(c, core.Subject{ID: author.ID, Username: "alice", Role: core.RoleAuthor})
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// The served read bumped the view counter; the failed anonymous one did not.
	var reloaded models.Blog
	require.NoError(t, db.First(&reloaded, blog.ID).Error)
	require.Equal(t, uint(1), reloaded.Views)
}

func TestUpdateBlogForbiddenForStranger(t *testing.T) {
	h, db := newBlogHandler(t)
	e := echo.New()

	blog := models.Blog{Permalink: "post", Title: "Post", Content: "body", Status: "approved", IsPublished: true, AuthorID: 1, Version: 1}
	require.NoError(t, db.Create(&blog).Error)

	c, _ := jsonContext(t, e, http.MethodPatch, "/blogs/post", map[string]any{"title": "hijacked"})
	c.SetParamNames("permalink")
	c.SetParamValues("post")
	withSubject(c, core.Subject{ID: 99, Username: "mallory", Role: core.RoleReader})

	err := h.Update(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}
