package challenge

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/learnquest/internal/store"
)

// DefaultBatchSize is how many challenges RandomByType returns when asked
// for zero or fewer.
const DefaultBatchSize = 5

// Service serves challenges from a record collection.
type Service struct {
	records store.Records[Challenge]

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// NewService creates a challenge service over records.
func NewService(records store.Records[Challenge], opts ...Option) *Service {
	s := &Service{records: records}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// All returns every challenge.
func (s *Service) All(ctx context.Context) ([]Challenge, error) {
	out, err := s.records.Fetch(ctx, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return out, nil
}

// ByID returns one challenge or an error wrapping store.ErrNotFound.
func (s *Service) ByID(ctx context.Context, id int) (Challenge, error) {
	c, err := s.records.Get(ctx, id)
	if err != nil {
		return Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	return c, nil
}

// ByType returns challenges of exactly type t.
func (s *Service) ByType(ctx context.Context, t Type) ([]Challenge, error) {
	out, err := s.records.Fetch(ctx, store.Query{Where: []store.Condition{store.Eq("type", t)}})
	if err != nil {
		return nil, fmt.Errorf("challenges by type %s: %w", t, err)
	}
	return out, nil
}

// BySkillAndDifficulty returns challenges for a skill at one difficulty.
func (s *Service) BySkillAndDifficulty(ctx context.Context, skill string, difficulty int) ([]Challenge, error) {
	out, err := s.records.Fetch(ctx, store.Query{Where: []store.Condition{
		store.Eq("skill", skill),
		store.Eq("difficulty", difficulty),
	}})
	if err != nil {
		return nil, fmt.Errorf("challenges by skill %s: %w", skill, err)
	}
	return out, nil
}

// RandomByType returns up to n shuffled challenges of type t.
func (s *Service) RandomByType(ctx context.Context, t Type, n int) ([]Challenge, error) {
	if n <= 0 {
		n = DefaultBatchSize
	}
	all, err := s.ByType(ctx, t)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	s.mu.Unlock()

	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Add validates and stores new challenges, returning them with ids.
func (s *Service) Add(ctx context.Context, cs ...Challenge) ([]Challenge, error) {
	for i, c := range cs {
		if err := Validate(c); err != nil {
			return nil, fmt.Errorf("challenge %d: %w", i, err)
		}
	}
	out, err := s.records.Create(ctx, cs...)
	if err != nil {
		return out, fmt.Errorf("add challenges: %w", err)
	}
	return out, nil
}

// Seed stores the built-in catalog when the collection is empty. It
// returns the number of challenges added.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.records.Fetch(ctx, store.Query{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("seed challenges: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	catalog, err := Catalog()
	if err != nil {
		return 0, err
	}
	added, err := s.Add(ctx, catalog...)
	return len(added), err
}
