package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/logging"
	"blogcore/internal/models"
	"blogcore/internal/mykafka"
	"blogcore/internal/util"
)

type CreateBlogInput struct {
	Title         string
	Content       string
	Tags          string
	Permalink     string
	Category      string
	FeatureImage  string
	ContentImages []string
	IsPublished   *bool
}

// CreateBlog is the submit() entry transition: status always starts at
// pending, the publish axis takes the creator's choice (defaulting to
// published, matching the entity's declared default). A blog must reference
// an existing category; an unknown category name blocks creation.
func (s *Service) CreateBlog(ctx context.Context, subject core.Subject, in CreateBlogInput) (*models.Blog, error) {
	l := logging.FromContext(ctx).With("svc", "moderation.create", "kind", "blog")

	if err := core.Authorize(subject, core.ActionCreate, core.Ownership{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("title and content are required: %w", core.ErrInvalidTransition)
	}

	var category models.Category
	if err := s.Store.DB.WithContext(ctx).Where("name = ?", in.Category).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %q: %w", in.Category, core.ErrNotFound)
		}
		return nil, err
	}

	permalink := in.Permalink
	if permalink == "" {
		permalink = in.Title
	}
	permalink = util.Slugify(permalink)

	var count int64
	if err := s.Store.DB.WithContext(ctx).Model(&models.Blog{}).Where("permalink = ?", permalink).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		permalink = fmt.Sprintf("%s-%d", permalink, time.Now().UnixMilli())
	}

	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	blog := models.Blog{
		Permalink:     permalink,
		Title:         in.Title,
		Content:       in.Content,
		Tags:          in.Tags,
		FeatureImage:  in.FeatureImage,
		ContentImages: strings.Join(in.ContentImages, ","),
		Status:        string(core.StatusPending),
		IsPublished:   published,
		CategoryID:    category.ID,
		AuthorID:      subject.ID,
		Version:       1,
	}
	if err := s.Store.DB.WithContext(ctx).Create(&blog).Error; err != nil {
		return nil, err
	}

	// Post-creation hook, deliberately outside the policy engine.
	if err := s.Identity.PromoteToAuthor(ctx, subject.ID); err != nil {
		l.Warn("author promotion failed", "subject", subject.ID, "error", err)
	}

	event := map[string]any{"type": "blog_created", "blogID": blog.ID, "authorID": subject.ID}
	if err := s.publish(ctx, mykafka.TopicContentEvents, fmt.Sprint(blog.ID), event); err != nil {
		l.Warn("event publish failed", "error", err)
	}
	s.reindex(ctx, core.KindBlog, &blog)

	return &blog, nil
}

type CreateCategoryInput struct {
	Name        string
	Description string
	Permalink   string
	Image       string
}

func (s *Service) CreateCategory(ctx context.Context, subject core.Subject, in CreateCategoryInput) (*models.Category, error) {
	if err := core.Authorize(subject, core.ActionCreate, core.Ownership{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("name and description are required: %w", core.ErrInvalidTransition)
	}

	permalink := in.Permalink
	if strings.TrimSpace(permalink) == "" {
		permalink = in.Name
	}
	permalink = util.Slugify(permalink)

	var count int64
	if err := s.Store.DB.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? OR permalink = ?", in.Name, permalink).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("category name or permalink already exists: %w", core.ErrConflict)
	}

	category := models.Category{
		Name:        in.Name,
		Permalink:   permalink,
		Description: in.Description,
		Image:       in.Image,
		Status:      string(core.StatusPending),
		AuthorID:    subject.ID,
		Version:     1,
	}
	if err := s.Store.DB.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}

	if err := s.Identity.PromoteToAuthor(ctx, subject.ID); err != nil {
		logging.FromContext(ctx).Warn("author promotion failed", "subject", subject.ID, "error", err)
	}

	return &category, nil
}

// CreateComment attaches a comment to the blog addressed by permalink. The
// comment enters the workflow at pending like every other moderated entity.
func (s *Service) CreateComment(ctx context.Context, subject core.Subject, blogPermalink, content string) (*models.Comment, error) {
	if err := core.Authorize(subject, core.ActionCreate, core.Ownership{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("comment content cannot be empty: %w", core.ErrInvalidTransition)
	}

	blogOwn, err := s.Store.Ownership(ctx, core.KindBlog, blogPermalink)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		BlogID:   blogOwn.ID,
		AuthorID: subject.ID,
		Content:  content,
		Status:   string(core.StatusPending),
		Version:  1,
	}
	if err := s.Store.DB.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}
