package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogcore/internal/core"
	authmw "blogcore/internal/middleware/auth"
	"blogcore/internal/service/moderation"
)

type CommentHandler struct {
	Mod *moderation.Service
}

func (h *CommentHandler) Create(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	comment, err := h.Mod.CreateComment(c.Request().Context(), authmw.SubjectFrom(c), c.Param("permalink"), req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Update(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	updated, err := h.Mod.AuthorizeAndTransition(c.Request().Context(), authmw.SubjectFrom(c), moderation.TransitionRequest{
		Action: core.ActionEditFields,
		Kind:   core.KindComment.Name,
		Ref:    c.Param("id"),
		Fields: core.Patch{"content": req.Content},
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CommentHandler) Delete(c echo.Context) error {
	_, err := h.Mod.AuthorizeAndTransition(c.Request().Context(), authmw.SubjectFrom(c), moderation.TransitionRequest{
		Action: core.ActionDelete,
		Kind:   core.KindComment.Name,
		Ref:    c.Param("id"),
	})
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListForBlog returns a blog's approved comments to the public, everything
// to the admin or their author via the shared visibility scope.
func (h *CommentHandler) ListForBlog(c echo.Context) error {
	ctx := c.Request().Context()
	blogOwn, err := h.Mod.Store.Ownership(ctx, core.KindBlog, c.Param("permalink"))
	if err != nil {
		return httpError(err)
	}

	filter := moderation.ListFilter{
		BlogID: blogOwn.ID,
		Page:   parseIntDefault(c.QueryParam("page"), 1),
		Size:   parseIntDefault(c.QueryParam("size"), 0),
	}
	page, err := h.Mod.ListVisible(ctx, core.KindComment.Name, filter, authmw.SubjectFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CommentHandler) ListMine(c echo.Context) error {
	subject := authmw.SubjectFrom(c)
	filter := moderation.ListFilter{
		AuthorID: subject.ID,
		Status:   c.QueryParam("status"),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		Size:     parseIntDefault(c.QueryParam("size"), 0),
	}
	page, err := h.Mod.ListVisible(c.Request().Context(), core.KindComment.Name, filter, subject)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}
