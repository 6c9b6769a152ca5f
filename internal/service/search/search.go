package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"blogcore/internal/core"
	"blogcore/internal/logging"
	"blogcore/internal/models"
)

const BlogIndex = "blogs"

// Search runs a keyword query over the blog index for public callers. The
// filter clause is the same visibility rule the database listings apply:
// approved status and the publish flag switched on.
func Search(ctx context.Context, es *elasticsearch.Client, query string, from, size int) (int64, []models.Blog, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"title^2", "content", "tags"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []map[string]any{
					{"term": map[string]any{"status": string(core.StatusApproved)}},
					{"term": map[string]any{"is_published": true}},
				},
			},
		},
		"from": from,
		"size": size,
		"sort": []map[string]any{{"created_at": map[string]any{"order": "desc"}}},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(BlogIndex),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Blog `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	blogs := make([]models.Blog, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		blogs[i] = hit.Source
	}
	return r.Hits.Total.Value, blogs, nil
}

// IndexBlog pushes the current blog document into the index. Indexing is
// best-effort: callers log failures and move on, the database stays the
// source of truth.
func IndexBlog(ctx context.Context, es *elasticsearch.Client, blog *models.Blog) error {
	if es == nil {
		return nil
	}
	data, err := json.Marshal(blog)
	if err != nil {
		return err
	}
	res, err := es.Index(
		BlogIndex,
		bytes.NewReader(data),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(blog.ID), 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index blog: %s", res.Status())
	}
	return nil
}

func DeleteBlog(ctx context.Context, es *elasticsearch.Client, id uint) error {
	if es == nil {
		return nil
	}
	res, err := es.Delete(
		BlogIndex,
		strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		logging.FromContext(ctx).Warn("es delete failed", "blog", id, "status", res.Status())
	}
	return nil
}
