// Package gateway stores report templates. It sits between the designer and
// the template collection, keeping recently used documents in memory.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/singleflight"

	"github.com/linesmerrill/report-designer-api/catalog"
	"github.com/linesmerrill/report-designer-api/databases"
	"github.com/linesmerrill/report-designer-api/models"
)

// ErrTemplateNotFound is returned when no template has the requested id
var ErrTemplateNotFound = errors.New("template not found")

// Page limits for List
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Gateway saves and loads serialized templates
type Gateway interface {
	Save(ctx context.Context, doc models.TemplateDocument) error
	Load(ctx context.Context, id string) (models.TemplateDocument, error)
}

// ListQuery selects a page of the template library. Search matches the
// name, description or any tag; Category narrows to one category key.
type ListQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// Page is one page of template summaries
type Page struct {
	Items []models.TemplateSummary `json:"items"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}

// CategoryCount is the number of templates in one library category
type CategoryCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// CategorySummary counts the library per category. Total includes templates
// without a category.
type CategorySummary struct {
	Total      int64           `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// Store is the Mongo backed Gateway. Documents returned by Load are shared
// with the cache and must be treated as read only.
type Store struct {
	db     databases.TemplateDatabase
	cache  *lru.Cache[string, models.TemplateDocument]
	flight singleflight.Group

	// mu guards loads and orders cache fills against invalidations
	mu    sync.Mutex
	loads map[string]*loadState
}

// loadState tracks the database reads in progress for one id. A read may
// fill the cache only if gen has not moved since it started.
type loadState struct {
	gen     uint64
	pending int
}

// NewStore wraps the template collection with an LRU cache of cacheSize
// documents.
func NewStore(db databases.TemplateDatabase, cacheSize int) (*Store, error) {
	cache, err := lru.New[string, models.TemplateDocument](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("template cache: %w", err)
	}
	return &Store{db: db, cache: cache, loads: make(map[string]*loadState)}, nil
}

// Save writes the document, replacing any template with the same id. The
// stored usage count is kept, so the next Load reads the document back.
func (s *Store) Save(ctx context.Context, doc models.TemplateDocument) error {
	err := s.db.Upsert(ctx, doc)
	s.invalidate(doc.ID)
	if err != nil {
		templateWrites.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("save template %s: %w", doc.ID, err)
	}
	templateWrites.WithLabelValues("save", "ok").Inc()
	return nil
}

// Load returns the stored document with the given id. Concurrent loads of an
// uncached id share one database read.
func (s *Store) Load(ctx context.Context, id string) (models.TemplateDocument, error) {
	if doc, ok := s.cache.Get(id); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return doc, nil
	}
	cacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := s.flight.Do(id, func() (interface{}, error) {
		// an earlier flight may have filled the cache since the check above
		if doc, ok := s.cache.Get(id); ok {
			return doc, nil
		}
		gen := s.beginLoad(id)
		found, err := s.db.FindOne(ctx, bson.M{"_id": id})
		if err != nil {
			found = nil
		}
		s.endLoad(id, gen, found)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("load template %s: %w", id, err)
		}
		return *found, nil
	})
	if err != nil {
		return models.TemplateDocument{}, err
	}
	return v.(models.TemplateDocument), nil
}

// Delete removes the template with the given id
func (s *Store) Delete(ctx context.Context, id string) error {
	deleted, err := s.db.DeleteOne(ctx, bson.M{"_id": id})
	s.invalidate(id)
	if err != nil {
		templateWrites.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	templateWrites.WithLabelValues("delete", "ok").Inc()
	return nil
}

// RecordUse counts one more use of the template with the given id
func (s *Store) RecordUse(ctx context.Context, id string) error {
	matched, err := s.db.IncrementUsage(ctx, id)
	s.invalidate(id)
	if err != nil {
		templateWrites.WithLabelValues("use", "error").Inc()
		return fmt.Errorf("record use of template %s: %w", id, err)
	}
	if matched == 0 {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	templateWrites.WithLabelValues("use", "ok").Inc()
	return nil
}

// beginLoad registers a database read of id and returns the generation it
// started under.
func (s *Store) beginLoad(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.loads[id]
	if !ok {
		st = &loadState{}
		s.loads[id] = st
	}
	st.pending++
	return st.gen
}

// endLoad finishes a read started at gen, caching doc unless a write to id
// happened meanwhile.
func (s *Store) endLoad(id string, gen uint64, doc *models.TemplateDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.loads[id]
	if doc != nil && st.gen == gen {
		s.cache.Add(id, *doc)
	}
	st.pending--
	if st.pending == 0 {
		delete(s.loads, id)
	}
}

// invalidate drops the cached copy of id and stops reads already in
// progress from caching what they find.
func (s *Store) invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.loads[id]; ok {
		st.gen++
	}
	s.cache.Remove(id)
}

// List returns a page of template summaries matching the query, most
// recently saved first.
func (s *Store) List(ctx context.Context, q ListQuery) (Page, error) {
	q = normalize(q)
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}

	total, err := s.db.CountDocuments(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("count templates: %w", err)
	}
	docs, err := s.db.Find(ctx, filter, q.Page, q.Limit)
	if err != nil {
		return Page{}, fmt.Errorf("list templates: %w", err)
	}

	items := make([]models.TemplateSummary, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.Summary())
	}
	return Page{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// CategoryCounts returns how many templates each library category holds
func (s *Store) CategoryCounts(ctx context.Context) (CategorySummary, error) {
	counts, err := s.db.CountByCategory(ctx)
	if err != nil {
		return CategorySummary{}, fmt.Errorf("count template categories: %w", err)
	}

	var summary CategorySummary
	for _, n := range counts {
		summary.Total += n
	}
	for _, c := range catalog.TemplateCategories() {
		summary.Categories = append(summary.Categories, CategoryCount{Key: c.Key, Label: c.Label, Count: counts[c.Key]})
	}
	return summary, nil
}

func normalize(q ListQuery) ListQuery {
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}
