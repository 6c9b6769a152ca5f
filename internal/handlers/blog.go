package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"blogcore/internal/core"
	authmw "blogcore/internal/middleware/auth"
	"blogcore/internal/models"
	"blogcore/internal/service/moderation"
)

type BlogHandler struct {
	Mod *moderation.Service
}

func (h *BlogHandler) Create(c echo.Context) error {
	var req struct {
		Title         string   `json:"title"`
		Content       string   `json:"content"`
		Tags          string   `json:"tags"`
		Permalink     string   `json:"permalink"`
		Category      string   `json:"category"`
		FeatureImage  string   `json:"feature_image"`
		ContentImages []string `json:"content_images"`
		IsPublished   *bool    `json:"is_published"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	blog, err := h.Mod.CreateBlog(c.Request().Context(), authmw.SubjectFrom(c), moderation.CreateBlogInput{
		Title:         req.Title,
		Content:       req.Content,
		Tags:          req.Tags,
		Permalink:     req.Permalink,
		Category:      req.Category,
		FeatureImage:  req.FeatureImage,
		ContentImages: req.ContentImages,
		IsPublished:   req.IsPublished,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, blog)
}

// Get serves a single blog by permalink. Anonymous and third-party callers
// only see publicly visible blogs; the owner and admins see any state.
func (h *BlogHandler) Get(c echo.Context) error {
	subject := authmw.SubjectFrom(c)
	ctx := c.Request().Context()

	own, err := h.Mod.Store.Ownership(ctx, core.KindBlog, c.Param("permalink"))
	if err != nil {
		return httpError(err)
	}
	if !moderation.IsOwnerOrAdmin(subject, own) && !core.PubliclyVisible(own.Status, own.Published) {
		return echo.NewHTTPError(http.StatusNotFound, "blog not found")
	}

	record, err := h.Mod.Store.Get(ctx, core.KindBlog, own.ID)
	if err != nil {
		return httpError(err)
	}
	blog := record.(*models.Blog)

	// View counting is not part of the moderation transition protocol, so it
	// bumps atomically without the version guard.
	if err := h.Mod.Store.DB.WithContext(ctx).Model(blog).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		c.Logger().Errorf("view count update error: %v", err)
	}

	return c.JSON(http.StatusOK, blog)
}

func (h *BlogHandler) Update(c echo.Context) error {
	var req struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		Tags       *string `json:"tags"`
		Permalink  *string `json:"permalink"`
		CategoryID *uint   `json:"category_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	fields := core.Patch{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Tags != nil {
		fields["tags"] = *req.Tags
	}
	if req.Permalink != nil {
		fields["permalink"] = *req.Permalink
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}

	updated, err := h.Mod.AuthorizeAndTransition(c.Request().Context(), authmw.SubjectFrom(c), moderation.TransitionRequest{
		Action: core.ActionEditFields,
		Kind:   core.KindBlog.Name,
		Ref:    c.Param("permalink"),
		Fields: fields,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *BlogHandler) TogglePublish(c echo.Context) error {
	var req struct {
		IsPublished *bool `json:"is_published"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	updated, err := h.Mod.AuthorizeAndTransition(c.Request().Context(), authmw.SubjectFrom(c), moderation.TransitionRequest{
		Action:  core.ActionTogglePublish,
		Kind:    core.KindBlog.Name,
		Ref:     c.Param("permalink"),
		Publish: req.IsPublished,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *BlogHandler) Delete(c echo.Context) error {
	_, err := h.Mod.AuthorizeAndTransition(c.Request().Context(), authmw.SubjectFrom(c), moderation.TransitionRequest{
		Action: core.ActionDelete,
		Kind:   core.KindBlog.Name,
		Ref:    c.Param("permalink"),
	})
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BlogHandler) List(c echo.Context) error {
	filter := moderation.ListFilter{
		CategoryID: uint(parseIntDefault(c.QueryParam("category_id"), 0)),
		AuthorID:   uint(parseIntDefault(c.QueryParam("author_id"), 0)),
		Page:       parseIntDefault(c.QueryParam("page"), 1),
		Size:       parseIntDefault(c.QueryParam("size"), 0),
	}
	page, err := h.Mod.ListVisible(c.Request().Context(), core.KindBlog.Name, filter, authmw.SubjectFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListMine is the owner dashboard: the caller's own blogs in any state,
// optionally narrowed to pending/approved/rejected or drafts.
func (h *BlogHandler) ListMine(c echo.Context) error {
	subject := authmw.SubjectFrom(c)
	filter := moderation.ListFilter{
		AuthorID: subject.ID,
		Status:   strings.TrimSpace(c.QueryParam("status")),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		Size:     parseIntDefault(c.QueryParam("size"), 0),
	}
	page, err := h.Mod.ListVisible(c.Request().Context(), core.KindBlog.Name, filter, subject)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}
