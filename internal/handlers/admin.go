package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogcore/internal/core"
	authmw "blogcore/internal/middleware/auth"
	"blogcore/internal/service/moderation"
)

type AdminHandler struct {
	Mod *moderation.Service
}

// SetStatus is the review(newStatus) operation: admin-only, any status is
// reachable from any other in one step. The kind comes from the route so one
// handler serves blogs, categories and comments.
func (h *AdminHandler) SetStatus(c echo.Context) error {
	var req struct {
		Ref    string `json:"ref"`
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	updated, err := h.Mod.AuthorizeAndTransition(c.Request().Context(), authmw.SubjectFrom(c), moderation.TransitionRequest{
		Action: core.ActionSetStatus,
		Kind:   c.Param("kind"),
		Ref:    req.Ref,
		Status: req.Status,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ListByStatus serves the review queue: all resources of a kind in a given
// status, regardless of owner.
func (h *AdminHandler) ListByStatus(c echo.Context) error {
	filter := moderation.ListFilter{
		Status: c.QueryParam("status"),
		Page:   parseIntDefault(c.QueryParam("page"), 1),
		Size:   parseIntDefault(c.QueryParam("size"), 0),
	}
	page, err := h.Mod.ListVisible(c.Request().Context(), c.Param("kind"), filter, authmw.SubjectFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}
