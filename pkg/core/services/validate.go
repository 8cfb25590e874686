package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/core/schedule"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateSpec runs struct-tag validation and maps the first violation to a
// ValidationError
func validateSpec(spec interface{}) error {
	err := validate.Struct(spec)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		return errs.NewValidation(strings.ToLower(first.Field()[:1])+first.Field()[1:], "failed "+first.Tag()+" check")
	}
	return errs.NewValidation("", err.Error())
}

// validateLocation checks that a location names a place unless it is flexible
func validateLocation(loc model.Location) error {
	if loc.Flexible {
		return nil
	}
	if strings.TrimSpace(loc.Name) == "" {
		return errs.NewValidation("location", "location name is required")
	}
	return nil
}

// validateTimeRange maps a malformed shift window to a ValidationError
func validateTimeRange(field string, tr model.TimeRange) error {
	if err := schedule.ValidateTimeRange(tr); err != nil {
		return errs.NewValidation(field, err.Error())
	}
	return nil
}

// validateShiftDate maps a malformed calendar day to a ValidationError
func validateShiftDate(field, date string) error {
	if _, err := schedule.ParseDate(date); err != nil {
		return errs.NewValidation(field, err.Error())
	}
	return nil
}
