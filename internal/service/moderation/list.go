package moderation

import (
	"context"

	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/models"
	"blogcore/internal/util"
)

type ListFilter struct {
	CategoryID uint
	AuthorID   uint
	BlogID     uint   // comments of one blog
	Status     string // honored only for owner/admin scopes
	Page       int
	Size       int
}

type Page struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// ListVisible serves every list path through one visibility rule. Admins see
// everything, an owner listing their own content sees it in any state, and
// everyone else gets the public predicate: approved, and published where the
// kind has a publish axis. The same clause backs listing by category, by
// author and the owner dashboards, so there is no second place for the rule
// to drift.
func (s *Service) ListVisible(ctx context.Context, kindName string, f ListFilter, caller core.Subject) (*Page, error) {
	kind, err := core.KindByName(kindName)
	if err != nil {
		return nil, err
	}

	offset, limit := util.Calculate(f.Page, f.Size)
	ownerScope := caller.ID != 0 && f.AuthorID == caller.ID
	privileged := caller.IsAdmin() || ownerScope

	q := s.scopedQuery(ctx, kind, f, privileged)
	if privileged && f.Status != "" {
		st, err := core.ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		q = q.Where("status = ?", string(st))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	q = q.Order("created_at DESC").Offset(offset).Limit(limit)

	var items any
	switch kind.Name {
	case core.KindBlog.Name:
		var blogs []models.Blog
		if err := q.Find(&blogs).Error; err != nil {
			return nil, err
		}
		items = blogs
	case core.KindCategory.Name:
		var categories []models.Category
		if err := q.Find(&categories).Error; err != nil {
			return nil, err
		}
		items = categories
	case core.KindComment.Name:
		var comments []models.Comment
		if err := q.Find(&comments).Error; err != nil {
			return nil, err
		}
		items = comments
	}

	return &Page{Items: items, Total: total, Page: max(f.Page, 1), Size: limit}, nil
}

func (s *Service) scopedQuery(ctx context.Context, kind core.Kind, f ListFilter, privileged bool) *gorm.DB {
	db := s.Store.DB.WithContext(ctx)

	var q *gorm.DB
	switch kind.Name {
	case core.KindBlog.Name:
		q = db.Model(&models.Blog{})
		if f.CategoryID != 0 {
			q = q.Where("category_id = ?", f.CategoryID)
		}
	case core.KindCategory.Name:
		q = db.Model(&models.Category{})
	default:
		q = db.Model(&models.Comment{})
		if f.BlogID != 0 {
			q = q.Where("blog_id = ?", f.BlogID)
		}
	}
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}

	if !privileged {
		q = q.Where("status = ?", string(core.StatusApproved))
		if kind.HasPublishAxis {
			q = q.Where("is_published = ?", true)
		}
	}
	return q
}
