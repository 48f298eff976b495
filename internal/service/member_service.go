package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"clubdirectory/internal/cache"
	"clubdirectory/internal/errors"
	"clubdirectory/internal/metrics"
	"clubdirectory/internal/model"
	"clubdirectory/internal/repository"
)

const (
	generationKey   = "members:generation"
	listKeyPrefix   = "members:list:"
	maxIDAttempts   = 10
	defaultCacheTTL = time.Minute
)

// MemberInput carries the fields accepted when creating a member.
type MemberInput struct {
	Name       string
	Age        *int
	Rating     *int
	Activities model.Activities
}

// MemberService exposes directory operations.
type MemberService interface {
	ListMembers(ctx context.Context, filter repository.Filter) ([]model.Member, error)
	CreateMember(ctx context.Context, input MemberInput) (*model.Member, error)
	// UpdateMember returns nil, nil when no member has the id.
	UpdateMember(ctx context.Context, id string, patch model.MemberPatch) (*model.Member, error)
	DeleteMember(ctx context.Context, id string) error
}

type memberService struct {
	repo     repository.MemberRepository
	cache    cache.Store
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	newID    func() string
}

// Option customises a member service.
type Option func(*memberService)

// WithCache enables list caching.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *memberService) {
		s.cache = store
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithMetrics records mutation outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *memberService) { s.metrics = m }
}

// WithIDGenerator replaces the random id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *memberService) { s.newID = gen }
}

// NewMemberService builds a MemberService over repo.
func NewMemberService(repo repository.MemberRepository, opts ...Option) MemberService {
	s := &memberService{
		repo:     repo,
		cacheTTL: defaultCacheTTL,
		newID:    RandomMemberID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RandomMemberID returns a 5-digit numeric id in [10000, 99999].
func RandomMemberID() string {
	return strconv.Itoa(10000 + rand.IntN(90000))
}

func (s *memberService) listKey(ctx context.Context, filter repository.Filter) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	gen, _ := s.cache.Get(ctx, generationKey)
	g := "0"
	if len(gen) > 0 {
		g = string(gen)
	}
	return listKeyPrefix + g + ":" + filter.Key(), true
}

func (s *memberService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_, _ = s.cache.Incr(ctx, generationKey)
	}
}

// ListMembers returns the filtered, sorted collection, reading through the cache.
func (s *memberService) ListMembers(ctx context.Context, filter repository.Filter) ([]model.Member, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	key, cached := s.listKey(ctx, filter)
	if cached {
		if data, _ := s.cache.Get(ctx, key); data != nil {
			var members []model.Member
			if err := json.Unmarshal(data, &members); err == nil {
				return members, nil
			}
		}
	}

	members, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	if cached {
		if payload, err := json.Marshal(members); err == nil {
			_ = s.cache.Set(ctx, key, payload, s.cacheTTL)
		}
	}
	return members, nil
}

// CreateMember mints an id, defaults activities to empty and stores the member.
func (s *memberService) CreateMember(ctx context.Context, input MemberInput) (*model.Member, error) {
	if strings.TrimSpace(input.Name) == "" {
		s.metrics.ObserveMutation("create", "invalid")
		return nil, errors.ErrNameRequired
	}

	id, err := s.mintID(ctx)
	if err != nil {
		s.metrics.ObserveMutation("create", "error")
		return nil, err
	}

	member := &model.Member{
		ID:         id,
		Name:       input.Name,
		Age:        input.Age,
		Rating:     input.Rating,
		Activities: input.Activities,
	}
	if member.Activities == nil {
		member.Activities = model.Activities{}
	}

	if err := s.repo.Create(ctx, member); err != nil {
		s.metrics.ObserveMutation("create", "error")
		return nil, fmt.Errorf("create member: %w", err)
	}
	s.invalidate(ctx)
	s.metrics.ObserveMutation("create", "ok")
	return member, nil
}

func (s *memberService) mintID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		taken, err := s.repo.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check member id: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", errors.ErrIDExhausted
}

// UpdateMember shallow-merges patch over the member with id. An unknown id
// is not an error.
func (s *memberService) UpdateMember(ctx context.Context, id string, patch model.MemberPatch) (*model.Member, error) {
	if patch.IsEmpty() {
		return nil, nil
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.metrics.ObserveMutation("update", "error")
		return nil, fmt.Errorf("update member %s: %w", id, err)
	}
	if updated == nil {
		s.metrics.ObserveMutation("update", "not_found")
		return nil, nil
	}
	s.invalidate(ctx)
	s.metrics.ObserveMutation("update", "ok")
	return updated, nil
}

// DeleteMember removes the member with id.
func (s *memberService) DeleteMember(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.metrics.ObserveMutation("delete", "error")
		return fmt.Errorf("delete member %s: %w", id, err)
	}
	if !ok {
		s.metrics.ObserveMutation("delete", "not_found")
		return errors.ErrMemberNotFound
	}
	s.invalidate(ctx)
	s.metrics.ObserveMutation("delete", "ok")
	return nil
}
