package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"blogcore/internal/core"
	"blogcore/internal/logging"
	"blogcore/internal/models"
	"blogcore/internal/mykafka"
	"blogcore/internal/service/identity"
	"blogcore/internal/service/search"
	"blogcore/internal/store"
	"blogcore/internal/util"
)

// Service ties the policy engine and the state machine to the store. Every
// mutation goes through the same path: resolve ownership, authorize, build
// the transition patch, apply it as one conditional update.
type Service struct {
	Store    *store.GormStore
	Identity *identity.Resolver
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

// TransitionRequest describes one mutation against an existing resource.
type TransitionRequest struct {
	Action  core.Action
	Kind    string
	Ref     string
	Fields  core.Patch // edit-fields payload, filtered to the kind's editable columns
	Publish *bool      // toggle-publish payload
	Status  string     // set-status payload
}

var editableFields = map[string]map[string]bool{
	core.KindBlog.Name:     {"title": true, "content": true, "tags": true, "permalink": true, "category_id": true, "feature_image": true, "content_images": true},
	core.KindCategory.Name: {"name": true, "description": true, "permalink": true, "image": true},
	core.KindComment.Name:  {"content": true},
}

// requiredText lists the fields an edit may change but never blank. The same
// fields are mandatory on creation.
var requiredText = map[string]map[string]bool{
	core.KindBlog.Name:     {"title": true, "content": true},
	core.KindCategory.Name: {"name": true, "description": true},
	core.KindComment.Name:  {"content": true},
}

// AuthorizeAndTransition is the single entry point for mutations of existing
// content. It returns the updated resource, or the sentinel error that the
// caller maps onto its own surface.
func (s *Service) AuthorizeAndTransition(ctx context.Context, subject core.Subject, req TransitionRequest) (any, error) {
	l := logging.FromContext(ctx).With("svc", "moderation", "kind", req.Kind, "action", string(req.Action))

	kind, err := core.KindByName(req.Kind)
	if err != nil {
		return nil, err
	}

	// Admins short-circuit the ownership comparison but still need the
	// resource to exist, so the lookup always runs.
	own, err := s.Store.Ownership(ctx, kind, req.Ref)
	if err != nil {
		return nil, err
	}

	if err := core.Authorize(subject, req.Action, own); err != nil {
		return nil, err
	}

	switch req.Action {
	case core.ActionSetStatus:
		patch, err := core.Review(req.Status)
		if err != nil {
			return nil, err
		}
		return s.apply(ctx, kind, own, patch)

	case core.ActionTogglePublish:
		if req.Publish == nil {
			return nil, fmt.Errorf("publish flag missing: %w", core.ErrInvalidTransition)
		}
		patch, err := core.SetPublish(kind, *req.Publish)
		if err != nil {
			return nil, err
		}
		return s.apply(ctx, kind, own, patch)

	case core.ActionEditFields:
		fields, err := s.sanitizeFields(ctx, kind, own, req.Fields)
		if err != nil {
			return nil, err
		}
		return s.apply(ctx, kind, own, core.EditContent(subject, fields))

	case core.ActionDelete:
		return nil, s.remove(ctx, l, kind, own)
	}
	return nil, fmt.Errorf("action %q: %w", req.Action, core.ErrInvalidTransition)
}

func (s *Service) apply(ctx context.Context, kind core.Kind, own core.Ownership, patch core.Patch) (any, error) {
	if err := s.Store.ApplyTransition(ctx, kind, own.ID, own.Version, patch); err != nil {
		return nil, err
	}
	updated, err := s.Store.Get(ctx, kind, own.ID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, kind, updated)
	return updated, nil
}

// sanitizeFields keeps only the kind's editable columns and normalizes
// permalink edits, rejecting a duplicate permalink up front.
func (s *Service) sanitizeFields(ctx context.Context, kind core.Kind, own core.Ownership, fields core.Patch) (core.Patch, error) {
	allowed := editableFields[kind.Name]
	out := core.Patch{}
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		if requiredText[kind.Name][k] {
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return nil, fmt.Errorf("%s cannot be empty: %w", k, core.ErrInvalidTransition)
			}
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no editable fields in payload: %w", core.ErrInvalidTransition)
	}

	if raw, ok := out["permalink"].(string); ok {
		permalink := util.Slugify(raw)
		var count int64
		model := map[string]any{core.KindBlog.Name: &models.Blog{}, core.KindCategory.Name: &models.Category{}}[kind.Name]
		if err := s.Store.DB.WithContext(ctx).Model(model).
			Where("permalink = ? AND id <> ?", permalink, own.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("permalink %q already taken: %w", permalink, core.ErrConflict)
		}
		out["permalink"] = permalink
	}
	return out, nil
}

func (s *Service) remove(ctx context.Context, l *slog.Logger, kind core.Kind, own core.Ownership) error {
	var mediaRefs []string
	if kind.Name == core.KindBlog.Name {
		record, err := s.Store.Get(ctx, kind, own.ID)
		if err != nil {
			return err
		}
		blog := record.(*models.Blog)
		if blog.FeatureImage != "" {
			mediaRefs = append(mediaRefs, blog.FeatureImage)
		}
		for _, ref := range strings.Split(blog.ContentImages, ",") {
			if ref = strings.TrimSpace(ref); ref != "" {
				mediaRefs = append(mediaRefs, ref)
			}
		}
	}

	if err := s.Store.Delete(ctx, kind, own.ID, own.Version); err != nil {
		return err
	}

	// The store row is gone; everything below is best-effort signalling to
	// external collaborators.
	if len(mediaRefs) > 0 {
		event := map[string]any{
			"type":       "media_release",
			"kind":       kind.Name,
			"resourceID": own.ID,
			"refs":       mediaRefs,
			"at":         time.Now().UTC(),
		}
		if err := s.publish(ctx, mykafka.TopicMediaEvents, fmt.Sprint(own.ID), event); err != nil {
			l.Warn("media release publish failed", "error", err)
		}
	}
	if kind.Name == core.KindBlog.Name {
		if err := search.DeleteBlog(ctx, s.ES, own.ID); err != nil {
			l.Warn("es delete failed", "error", err)
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, topic, key string, event any) error {
	if s.Producer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.Producer.PublishEvent(ctx, topic, key, event)
}

func (s *Service) reindex(ctx context.Context, kind core.Kind, record any) {
	if kind.Name != core.KindBlog.Name {
		return
	}
	if blog, ok := record.(*models.Blog); ok {
		if err := search.IndexBlog(ctx, s.ES, blog); err != nil {
			logging.FromContext(ctx).Warn("es index failed", "blog", blog.ID, "error", err)
		}
	}
}

// IsOwnerOrAdmin reports whether subject may see a resource outside the
// public visibility predicate.
func IsOwnerOrAdmin(subject core.Subject, own core.Ownership) bool {
	return subject.IsAdmin() || (subject.ID != 0 && subject.ID == own.OwnerID)
}
