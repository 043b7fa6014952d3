package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"persona-quiz-service/internal/domain"
)

// CatalogRepository loads the read-only question catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}

// AttemptGate tracks which users have already taken the quiz. Claim must be
// atomic (check-and-set in one step): two concurrent submissions from the
// same user must never both win.
type AttemptGate interface {
	Completed(ctx context.Context, userID string) (bool, error)
	Claim(ctx context.Context, userID, token string) (bool, error)
	Release(ctx context.Context, userID string) error
}

// ResultStore persists verdict results. Results are append-only: Save is
// called exactly once per token and existing records are never updated.
type ResultStore interface {
	Save(ctx context.Context, result domain.Result) error
	FindByToken(ctx context.Context, token string) (domain.Result, error)
}

// VerdictService contains the submission and retrieval use cases.
type VerdictService struct {
	catalog  CatalogRepository
	gate     AttemptGate
	results  ResultStore
	newToken func() string
	now      func() time.Time
}

func NewVerdictService(catalog CatalogRepository, gate AttemptGate, results ResultStore) *VerdictService {
	return NewVerdictServiceWithClock(catalog, gate, results, uuid.NewString, time.Now)
}

// NewVerdictServiceWithClock is test-only for deterministic tokens and timestamps.
func NewVerdictServiceWithClock(catalog CatalogRepository, gate AttemptGate, results ResultStore, newToken func() string, now func() time.Time) *VerdictService {
	return &VerdictService{
		catalog:  catalog,
		gate:     gate,
		results:  results,
		newToken: newToken,
		now:      now,
	}
}

// Submit validates, scores, and persists a user's one and only quiz attempt.
// Validation errors short-circuit before the gate is claimed or anything is
// written, so rejected submissions leave no trace.
func (s *VerdictService) Submit(ctx context.Context, userID string, answers []domain.Answer) (domain.Result, error) {
	done, err := s.gate.Completed(ctx, userID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: check attempt: %v", domain.ErrStoreUnavailable, err)
	}
	if done {
		return domain.Result{}, domain.ErrAlreadyCompleted
	}

	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	if len(catalog.Questions) == 0 {
		return domain.Result{}, domain.ErrCatalogUnavailable
	}

	if err := validateSubmission(catalog, answers); err != nil {
		return domain.Result{}, err
	}

	breakdown := scoreSubmission(catalog, answers)
	result := domain.Result{
		Token:           s.newToken(),
		OwnerID:         userID,
		WinningCategory: resolveWinner(catalog, breakdown, answers),
		Breakdown:       breakdown,
		Answers:         answers,
		CreatedAt:       s.now().UTC(),
	}

	won, err := s.gate.Claim(ctx, userID, result.Token)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: claim attempt: %v", domain.ErrStoreUnavailable, err)
	}
	if !won {
		return domain.Result{}, domain.ErrAlreadyCompleted
	}

	if err := s.results.Save(ctx, result); err != nil {
		// Roll the claim back so the user can retry once the store recovers.
		if relErr := s.gate.Release(ctx, userID); relErr != nil {
			return domain.Result{}, fmt.Errorf("%w: store result: %v (release attempt: %v)", domain.ErrStoreUnavailable, err, relErr)
		}
		return domain.Result{}, fmt.Errorf("%w: store result: %v", domain.ErrStoreUnavailable, err)
	}

	return result, nil
}

// Fetch returns a stored result enriched with category metadata. Only the
// owner may read it.
func (s *VerdictService) Fetch(ctx context.Context, token, requestingUserID string) (domain.Verdict, error) {
	result, err := s.results.FindByToken(ctx, token)
	if err != nil {
		return domain.Verdict{}, err
	}
	if result.OwnerID != requestingUserID {
		return domain.Verdict{}, domain.ErrNotOwner
	}

	verdict := domain.Verdict{Result: result}
	catalog, err := s.catalog.GetCatalog(ctx)
	if err == nil {
		if meta, ok := catalog.Categories[result.WinningCategory]; ok {
			verdict.Category = meta
		}
	}
	if verdict.Category.ID == "" {
		verdict.Category = domain.Category{ID: result.WinningCategory}
	}
	return verdict, nil
}

// Questions returns the catalog for display, with scoring maps stripped so
// clients cannot derive the verdict function.
func (s *VerdictService) Questions(ctx context.Context) ([]domain.Question, error) {
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog.Questions) == 0 {
		return nil, domain.ErrCatalogUnavailable
	}

	questions := make([]domain.Question, len(catalog.Questions))
	for i, q := range catalog.Questions {
		sanitized := q
		sanitized.Options = make([]domain.Option, len(q.Options))
		for j, opt := range q.Options {
			sanitized.Options[j] = domain.Option{ID: opt.ID, Text: opt.Text}
		}
		questions[i] = sanitized
	}
	return questions, nil
}
