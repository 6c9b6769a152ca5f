package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/models"
)

type GormStore struct {
	DB *gorm.DB
}

var _ ContentStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func modelFor(kind core.Kind) (any, error) {
	switch kind.Name {
	case core.KindBlog.Name:
		return &models.Blog{}, nil
	case core.KindCategory.Name:
		return &models.Category{}, nil
	case core.KindComment.Name:
		return &models.Comment{}, nil
	}
	return nil, fmt.Errorf("kind %q: %w", kind.Name, core.ErrNotFound)
}

func (s *GormStore) Ownership(ctx context.Context, kind core.Kind, ref string) (core.Ownership, error) {
	switch kind.Name {
	case core.KindBlog.Name:
		var b models.Blog
		if err := s.first(ctx, &b, "permalink = ?", ref); err != nil {
			return core.Ownership{}, err
		}
		published := b.IsPublished
		return core.Ownership{ID: b.ID, OwnerID: b.AuthorID, Status: core.Status(b.Status), Published: &published, Version: b.Version}, nil

	case core.KindCategory.Name:
		var c models.Category
		if err := s.first(ctx, &c, "permalink = ?", ref); err != nil {
			return core.Ownership{}, err
		}
		return core.Ownership{ID: c.ID, OwnerID: c.AuthorID, Status: core.Status(c.Status), Version: c.Version}, nil

	case core.KindComment.Name:
		id, err := strconv.ParseUint(ref, 10, 64)
		if err != nil {
			return core.Ownership{}, fmt.Errorf("comment ref %q: %w", ref, core.ErrNotFound)
		}
		var c models.Comment
		if err := s.first(ctx, &c, "id = ?", uint(id)); err != nil {
			return core.Ownership{}, err
		}
		return core.Ownership{ID: c.ID, OwnerID: c.AuthorID, Status: core.Status(c.Status), Version: c.Version}, nil
	}
	return core.Ownership{}, fmt.Errorf("kind %q: %w", kind.Name, core.ErrNotFound)
}

func (s *GormStore) first(ctx context.Context, dest any, query string, args ...any) error {
	if err := s.DB.WithContext(ctx).Where(query, args...).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return core.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *GormStore) ApplyTransition(ctx context.Context, kind core.Kind, id, expectedVersion uint, patch core.Patch) error {
	model, err := modelFor(kind)
	if err != nil {
		return err
	}

	updates := map[string]any{"version": expectedVersion + 1}
	for k, v := range patch {
		updates[k] = v
	}

	res := s.DB.WithContext(ctx).Model(model).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.guardFailure(ctx, kind, id)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, kind core.Kind, id, expectedVersion uint) error {
	model, err := modelFor(kind)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).
		Where("id = ? AND version = ?", id, expectedVersion).
		Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.guardFailure(ctx, kind, id)
	}
	return nil
}

// guardFailure distinguishes a lost conditional update (row exists at another
// version) from a vanished row.
func (s *GormStore) guardFailure(ctx context.Context, kind core.Kind, id uint) error {
	model, err := modelFor(kind)
	if err != nil {
		return err
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return core.ErrConflict
	}
	return core.ErrNotFound
}

func (s *GormStore) Get(ctx context.Context, kind core.Kind, id uint) (any, error) {
	switch kind.Name {
	case core.KindBlog.Name:
		var b models.Blog
		if err := s.first(ctx, &b, "id = ?", id); err != nil {
			return nil, err
		}
		return &b, nil
	case core.KindCategory.Name:
		var c models.Category
		if err := s.first(ctx, &c, "id = ?", id); err != nil {
			return nil, err
		}
		return &c, nil
	case core.KindComment.Name:
		var c models.Comment
		if err := s.first(ctx, &c, "id = ?", id); err != nil {
			return nil, err
		}
		return &c, nil
	}
	return nil, fmt.Errorf("kind %q: %w", kind.Name, core.ErrNotFound)
}
