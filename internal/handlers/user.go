package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"blogcore/internal/hash"
	authmw "blogcore/internal/middleware/auth"
	"blogcore/internal/models"
)

type UserHandler struct {
	DB *gorm.DB
}

// Me returns the caller's own profile. Secrets never serialize: the password
// hash is tagged out of the model's JSON form.
func (h *UserHandler) Me(c echo.Context) error {
	subject := authmw.SubjectFrom(c)

	var user models.User
	if err := h.DB.WithContext(c.Request().Context()).First(&user, subject.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword swaps the caller's password after verifying the current one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new password is required")
	}

	subject := authmw.SubjectFrom(c)
	ctx := c.Request().Context()

	var user models.User
	if err := h.DB.WithContext(ctx).First(&user, subject.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if !hash.CheckPassword(user.PasswordHash, req.OldPassword) {
		return echo.NewHTTPError(http.StatusUnauthorized, "current password is incorrect")
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if err := h.DB.WithContext(ctx).Model(&user).Update("password_hash", pwHash).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// UpdateAccount edits the caller's own profile fields. Role is not editable
// here; promotion has its own path.
func (h *UserHandler) UpdateAccount(c echo.Context) error {
	var req struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Bio      *string `json:"bio"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "email cannot be empty")
		}
		updates["email"] = *req.Email
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if len(updates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	subject := authmw.SubjectFrom(c)
	ctx := c.Request().Context()

	if email, ok := updates["email"]; ok {
		var count int64
		if err := h.DB.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", email, subject.ID).
			Count(&count).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
		if count > 0 {
			return echo.NewHTTPError(http.StatusConflict, "email already in use")
		}
	}

	if err := h.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", subject.ID).
		Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	var user models.User
	if err := h.DB.WithContext(ctx).First(&user, subject.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, user)
}
