package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/charity-task-api/internal/constants"
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/workflow"
)

var regNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidateRegNumber checks the charity registration number format: exactly ten digits
func ValidateRegNumber(regNumber string) error {
	if !regNumberPattern.MatchString(regNumber) {
		return workflow.Validationf("registration number must be exactly %d digits", constants.RegistrationNumberLen)
	}
	return nil
}

// parseGender converts an optional gender code. Empty means unset.
func parseGender(field string, code *string) (*models.Gender, error) {
	if code == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil, nil
	}
	g := models.Gender(strings.ToUpper(trimmed))
	if !g.Valid() {
		return nil, workflow.Validationf("%s must be M or F, got %q", field, *code)
	}
	return &g, nil
}

// validateSmallInt checks an optional non-negative small integer
func validateSmallInt(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > constants.MaxSmallIntValue {
		return workflow.Validationf("%s must be between 0 and %d", field, constants.MaxSmallIntValue)
	}
	return nil
}

func validateLength(field, value string, max int, required bool) error {
	if required && strings.TrimSpace(value) == "" {
		return workflow.Validationf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > max {
		return workflow.Validationf("%s must be at most %d characters", field, max)
	}
	return nil
}
