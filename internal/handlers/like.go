package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"blogcore/internal/core"
	authmw "blogcore/internal/middleware/auth"
	"blogcore/internal/models"
)

type LikeHandler struct {
	DB *gorm.DB
}

// ToggleBlog likes the blog if the caller has not liked it yet and removes
// the like otherwise.
func (h *LikeHandler) ToggleBlog(c echo.Context) error {
	subject := authmw.SubjectFrom(c)
	ctx := c.Request().Context()

	var blog models.Blog
	if err := h.DB.WithContext(ctx).Where("permalink = ?", c.Param("permalink")).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if !core.PubliclyVisible(core.Status(blog.Status), &blog.IsPublished) && subject.ID != blog.AuthorID && !subject.IsAdmin() {
		return echo.NewHTTPError(http.StatusNotFound, "blog not found")
	}

	var existing models.Like
	err := h.DB.WithContext(ctx).Where("blog_id = ? AND liked_by_id = ?", blog.ID, subject.ID).First(&existing).Error
	if err == nil {
		if err := h.DB.WithContext(ctx).Delete(&existing).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"liked": false})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	like := models.Like{BlogID: blog.ID, BlogAuthorID: blog.AuthorID, LikedByID: subject.ID}
	if err := h.DB.WithContext(ctx).Create(&like).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": true})
}

func (h *LikeHandler) ToggleComment(c echo.Context) error {
	subject := authmw.SubjectFrom(c)
	ctx := c.Request().Context()

	commentID := uint(parseIntDefault(c.Param("id"), 0))
	var comment models.Comment
	if err := h.DB.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	var existing models.Like
	err := h.DB.WithContext(ctx).Where("comment_id = ? AND liked_by_id = ?", comment.ID, subject.ID).First(&existing).Error
	if err == nil {
		if err := h.DB.WithContext(ctx).Delete(&existing).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"liked": false})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	like := models.Like{CommentID: comment.ID, LikedByID: subject.ID}
	if err := h.DB.WithContext(ctx).Create(&like).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": true})
}

// AuthorTotal returns the total likes across the caller's blogs.
func (h *LikeHandler) AuthorTotal(c echo.Context) error {
	subject := authmw.SubjectFrom(c)

	var total int64
	if err := h.DB.WithContext(c.Request().Context()).Model(&models.Like{}).
		Where("blog_author_id = ?", subject.ID).
		Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"author_total_likes": total})
}
