package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogcore/internal/core"
	authmw "blogcore/internal/middleware/auth"
	"blogcore/internal/service/moderation"
)

type CategoryHandler struct {
	Mod *moderation.Service
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Permalink   string `json:"permalink"`
		Image       string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	category, err := h.Mod.CreateCategory(c.Request().Context(), authmw.SubjectFrom(c), moderation.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Permalink:   req.Permalink,
		Image:       req.Image,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Permalink   *string `json:"permalink"`
		Image       *string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	fields := core.Patch{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Permalink != nil {
		fields["permalink"] = *req.Permalink
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}

	updated, err := h.Mod.AuthorizeAndTransition(c.Request().Context(), authmw.SubjectFrom(c), moderation.TransitionRequest{
		Action: core.ActionEditFields,
		Kind:   core.KindCategory.Name,
		Ref:    c.Param("permalink"),
		Fields: fields,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	_, err := h.Mod.AuthorizeAndTransition(c.Request().Context(), authmw.SubjectFrom(c), moderation.TransitionRequest{
		Action: core.ActionDelete,
		Kind:   core.KindCategory.Name,
		Ref:    c.Param("permalink"),
	})
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) List(c echo.Context) error {
	filter := moderation.ListFilter{
		AuthorID: uint(parseIntDefault(c.QueryParam("author_id"), 0)),
		Status:   c.QueryParam("status"),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		Size:     parseIntDefault(c.QueryParam("size"), 0),
	}
	page, err := h.Mod.ListVisible(c.Request().Context(), core.KindCategory.Name, filter, authmw.SubjectFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}
