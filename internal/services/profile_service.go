package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/charity-task-api/internal/constants"
	"github.com/yukikurage/charity-task-api/internal/metrics"
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/repository"
	"github.com/yukikurage/charity-task-api/internal/workflow"
	"gorm.io/gorm"
)

// ProfileService registers and removes the benefactor and charity roles of a user.
type ProfileService struct {
	benefactorRepo repository.BenefactorRepository
	charityRepo    repository.CharityRepository
	principals     principalLoader
	logger         logrus.FieldLogger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(benefactorRepo repository.BenefactorRepository, charityRepo repository.CharityRepository, logger logrus.FieldLogger) *ProfileService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProfileService{
		benefactorRepo: benefactorRepo,
		charityRepo:    charityRepo,
		principals:     principalLoader{benefactorRepo: benefactorRepo, charityRepo: charityRepo},
		logger:         logger,
	}
}

// RegisterBenefactorInput holds the benefactor profile attributes.
type RegisterBenefactorInput struct {
	Experience      models.Experience
	FreeTimePerWeek int
}

// RegisterBenefactor creates the benefactor profile of a user.
func (s *ProfileService) RegisterBenefactor(ctx context.Context, userID uint64, input RegisterBenefactorInput) (benefactor *models.Benefactor, err error) {
	defer func() { metrics.Registrations.WithLabelValues("benefactor", outcome(err)).Inc() }()

	if !input.Experience.Valid() {
		return nil, workflow.Validationf("experience must be 0 (Beginner), 1 (Intermediate) or 2 (Expert)")
	}
	if err := validateSmallInt("free_time_per_week", &input.FreeTimePerWeek); err != nil {
		return nil, err
	}

	p, err := s.principals.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := workflow.AuthorizeRegisterBenefactor(p); err != nil {
		return nil, err
	}

	benefactor = &models.Benefactor{
		UserID:          userID,
		Experience:      input.Experience,
		FreeTimePerWeek: input.FreeTimePerWeek,
	}
	if err := s.benefactorRepo.Create(ctx, benefactor); err != nil {
		if isDuplicate(err) {
			return nil, workflow.Conflictf("user %d is already registered as a benefactor", userID)
		}
		return nil, fmt.Errorf("failed to create benefactor: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "benefactor_id": benefactor.ID}).Info("benefactor registered")
	return benefactor, nil
}

// RegisterCharityInput holds the charity profile attributes.
type RegisterCharityInput struct {
	Name      string
	RegNumber string
}

// RegisterCharity creates the charity profile of a user.
func (s *ProfileService) RegisterCharity(ctx context.Context, userID uint64, input RegisterCharityInput) (charity *models.Charity, err error) {
	defer func() { metrics.Registrations.WithLabelValues("charity", outcome(err)).Inc() }()

	name := strings.TrimSpace(input.Name)
	if err := validateLength("name", name, constants.MaxCharityNameLength, true); err != nil {
		return nil, err
	}
	if err := ValidateRegNumber(input.RegNumber); err != nil {
		return nil, err
	}

	p, err := s.principals.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := workflow.AuthorizeRegisterCharity(p); err != nil {
		return nil, err
	}

	charity = &models.Charity{
		UserID:    userID,
		Name:      name,
		RegNumber: input.RegNumber,
	}
	if err := s.charityRepo.Create(ctx, charity); err != nil {
		if isDuplicate(err) {
			return nil, workflow.Conflictf("user %d is already registered as a charity", userID)
		}
		return nil, fmt.Errorf("failed to create charity: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "charity_id": charity.ID}).Info("charity registered")
	return charity, nil
}

// GetBenefactor returns the caller's benefactor profile.
func (s *ProfileService) GetBenefactor(ctx context.Context, userID uint64) (*models.Benefactor, error) {
	benefactor, err := s.benefactorRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFoundf("user %d is not registered as a benefactor", userID)
		}
		return nil, fmt.Errorf("failed to find benefactor: %w", err)
	}
	return benefactor, nil
}

// GetCharity returns the caller's charity profile.
func (s *ProfileService) GetCharity(ctx context.Context, userID uint64) (*models.Charity, error) {
	charity, err := s.charityRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFoundf("user %d is not registered as a charity", userID)
		}
		return nil, fmt.Errorf("failed to find charity: %w", err)
	}
	return charity, nil
}

// WithdrawBenefactor removes the caller's benefactor profile. Tasks it was
// waiting on or assigned to return to the open pool.
func (s *ProfileService) WithdrawBenefactor(ctx context.Context, userID uint64) error {
	benefactor, err := s.GetBenefactor(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.benefactorRepo.Delete(ctx, benefactor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workflow.NotFoundf("user %d is not registered as a benefactor", userID)
		}
		return fmt.Errorf("failed to delete benefactor: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "benefactor_id": benefactor.ID}).Info("benefactor withdrawn")
	return nil
}

// CloseCharity removes the caller's charity profile together with its tasks.
func (s *ProfileService) CloseCharity(ctx context.Context, userID uint64) error {
	charity, err := s.GetCharity(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.charityRepo.Delete(ctx, charity.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workflow.NotFoundf("user %d is not registered as a charity", userID)
		}
		return fmt.Errorf("failed to delete charity: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "charity_id": charity.ID}).Info("charity closed")
	return nil
}
