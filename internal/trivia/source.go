package trivia

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"trivia-quiz-service/internal/domain"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCategoryTTL is how long a fetched category list stays fresh.
const DefaultCategoryTTL = 24 * time.Hour

// CategoryCache holds a single (categories, fetchedAt) slot. Freshness is
// decided by the Source, not the cache.
type CategoryCache interface {
	Load(ctx context.Context) ([]domain.Category, time.Time, bool)
	Store(ctx context.Context, categories []domain.Category, fetchedAt time.Time)
}

// Source fetches and normalizes questions and categories.
type Source struct {
	client *Client
	cache  CategoryCache
	ttl    time.Duration
	clock  func() time.Time
	intn   func(n int) int
	newID  func() string
	log    *zap.Logger
	sf     singleflight.Group
}

type Option func(*Source)

// WithClock replaces time.Now for cache freshness checks.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.clock = now }
}

// WithCategoryTTL overrides DefaultCategoryTTL.
func WithCategoryTTL(ttl time.Duration) Option {
	return func(s *Source) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithRand replaces the random source used to order answer options.
func WithRand(intn func(n int) int) Option {
	return func(s *Source) { s.intn = intn }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

func NewSource(client *Client, cache CategoryCache, opts ...Option) *Source {
	s := &Source{
		client: client,
		cache:  cache,
		ttl:    DefaultCategoryTTL,
		clock:  time.Now,
		intn:   rand.Intn,
		newID:  func() string { return ulid.Make().String() },
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchCategories returns the cached list while it is younger than the TTL,
// otherwise refetches. It never fails: on any fetch problem the fallback list
// is returned and the cache is left untouched.
func (s *Source) FetchCategories(ctx context.Context) []domain.Category {
	if categories, ok := s.freshCategories(ctx); ok {
		return categories
	}

	result, _, _ := s.sf.Do("categories", func() (interface{}, error) {
		if categories, ok := s.freshCategories(ctx); ok {
			return categories, nil
		}
		categories, err := s.client.Categories(ctx)
		if err != nil {
			s.log.Warn("category fetch failed, serving fallback list", zap.Error(err))
			return FallbackCategories(), nil
		}
		s.cache.Store(ctx, categories, s.clock())
		return categories, nil
	})
	return cloneCategories(result.([]domain.Category))
}

func (s *Source) freshCategories(ctx context.Context) ([]domain.Category, bool) {
	categories, fetchedAt, ok := s.cache.Load(ctx)
	if !ok || len(categories) == 0 {
		return nil, false
	}
	if s.clock().Sub(fetchedAt) >= s.ttl {
		return nil, false
	}
	return cloneCategories(categories), true
}

// FindCategory looks up a category id in the current category list.
func (s *Source) FindCategory(ctx context.Context, id int) (domain.Category, bool) {
	for _, c := range s.FetchCategories(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// FetchQuestions loads questions and decodes them for display. Options are
// shuffled here, once; nothing downstream reorders them. There is no fallback:
// failures are returned wrapped in domain.ErrQuestionFetch.
func (s *Source) FetchQuestions(ctx context.Context, q Query) ([]domain.Question, error) {
	q.Encoding = "url3986"
	raw, err := s.client.Questions(ctx, q)
	if err != nil {
		s.log.Error("question fetch failed",
			zap.Int("amount", q.Amount),
			zap.Int("category", q.CategoryID),
			zap.String("difficulty", string(q.Difficulty)),
			zap.Error(err),
		)
		return nil, err
	}

	batch := s.newID()
	questions := make([]domain.Question, 0, len(raw))
	for i, r := range raw {
		questions = append(questions, s.normalize(fmt.Sprintf("q_%s_%d", batch, i), r))
	}
	return questions, nil
}

// RawQuestions passes provider questions through without decoding.
func (s *Source) RawQuestions(ctx context.Context, q Query) ([]RawQuestion, error) {
	return s.client.Questions(ctx, q)
}

func (s *Source) normalize(id string, r RawQuestion) domain.Question {
	correct := DecodeEntities(r.CorrectAnswer)
	incorrect := make([]string, len(r.IncorrectAnswers))
	for i, a := range r.IncorrectAnswers {
		incorrect[i] = DecodeEntities(a)
	}
	options := ShuffleWith(s.intn, append([]string{correct}, incorrect...))

	return domain.Question{
		ID:               id,
		Category:         DecodeEntities(r.Category),
		Type:             domain.QuestionType(DecodeEntities(r.Type)),
		Difficulty:       domain.Difficulty(DecodeEntities(r.Difficulty)),
		Text:             DecodeEntities(r.Question),
		CorrectAnswer:    correct,
		IncorrectAnswers: incorrect,
		Options:          options,
	}
}

// DisplayName shortens provider category names for page titles.
func DisplayName(name string) string {
	name = strings.Replace(name, "Entertainment: ", "", 1)
	return strings.Replace(name, "Science: ", "", 1)
}

func cloneCategories(in []domain.Category) []domain.Category {
	out := make([]domain.Category, len(in))
	copy(out, in)
	return out
}
