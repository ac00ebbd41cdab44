package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brandscope/internal/domain"
	"brandscope/internal/ports"
)

// Keys written after a successful intake.
const (
	KeyBrandID      = "brandId"
	KeyBrandName    = "brandName"
	KeyBrandWebsite = "brandWebsite"
)

var ErrMissingBrand = errors.New("session: no brand id")

// Session is the per-visitor context shared by the intake and dashboard
// flows. Only the brand keys are stored.
type Session struct {
	id   string
	repo ports.SessionRepository
	ttl  time.Duration
}

func New(id string, repo ports.SessionRepository, ttl time.Duration) *Session {
	return &Session{id: id, repo: repo, ttl: ttl}
}

func (s *Session) ID() string { return s.id }

// BrandID returns ErrMissingBrand when intake has not completed.
func (s *Session) BrandID(ctx context.Context) (string, error) {
	id, found, err := s.repo.Get(ctx, s.id, KeyBrandID)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", KeyBrandID, err)
	}
	if !found || id == "" {
		return "", ErrMissingBrand
	}
	return id, nil
}

// Brand returns the stored brand copy. Name and website may be empty.
func (s *Session) Brand(ctx context.Context) (domain.BrandRef, error) {
	id, err := s.BrandID(ctx)
	if err != nil {
		return domain.BrandRef{}, err
	}
	ref := domain.BrandRef{ID: id}
	if ref.Name, _, err = s.repo.Get(ctx, s.id, KeyBrandName); err != nil {
		return ref, fmt.Errorf("read %s: %w", KeyBrandName, err)
	}
	if ref.Website, _, err = s.repo.Get(ctx, s.id, KeyBrandWebsite); err != nil {
		return ref, fmt.Errorf("read %s: %w", KeyBrandWebsite, err)
	}
	return ref, nil
}

// SaveBrand writes all three brand keys in a single repository call.
func (s *Session) SaveBrand(ctx context.Context, ref domain.BrandRef) error {
	if ref.ID == "" {
		return ErrMissingBrand
	}
	return s.repo.SetMany(ctx, s.id, map[string]string{
		KeyBrandID:      ref.ID,
		KeyBrandName:    ref.Name,
		KeyBrandWebsite: ref.Website,
	}, s.ttl)
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
