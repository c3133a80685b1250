package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/charity-task-api/internal/repository"
	"github.com/yukikurage/charity-task-api/internal/workflow"
	"gorm.io/gorm"
)

// principalLoader resolves an authenticated user ID into the role profiles it holds.
type principalLoader struct {
	benefactorRepo repository.BenefactorRepository
	charityRepo    repository.CharityRepository
}

func (l principalLoader) load(ctx context.Context, userID uint64) (workflow.Principal, error) {
	p := workflow.Principal{UserID: userID}

	benefactor, err := l.benefactorRepo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		p.Benefactor = benefactor
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return p, fmt.Errorf("failed to load benefactor profile: %w", err)
	}

	charity, err := l.charityRepo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		p.Charity = charity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return p, fmt.Errorf("failed to load charity profile: %w", err)
	}

	return p, nil
}

// outcome labels an error for metrics
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch workflow.KindOf(err) {
	case workflow.ErrNotFound:
		return "not_found"
	case workflow.ErrConflict:
		return "conflict"
	case workflow.ErrForbidden:
		return "forbidden"
	case workflow.ErrInvalidTransition:
		return "invalid_transition"
	case workflow.ErrValidation:
		return "validation"
	default:
		return "error"
	}
}

// isDuplicate reports a unique constraint violation
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
