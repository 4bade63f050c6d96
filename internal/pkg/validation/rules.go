package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/scholarpath/internal/app/models"
)

// Validation rule patterns
var (
	// PhonePattern matches local Ethiopian mobile numbers such as 0912345678
	PhonePattern = `^0\d{9}$`

	// PasswordMinLength is the minimum password length
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

// RegisterCustomRules adds the domain enum tags to a validator instance:
// degreelevel, fundingtype, trackingstatus, documenttype and phone.
func RegisterCustomRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"degreelevel": func(fl validator.FieldLevel) bool {
			return models.DegreeLevel(fl.Field().String()).Valid()
		},
		"fundingtype": func(fl validator.FieldLevel) bool {
			switch models.FundingType(fl.Field().String()) {
			case models.FundingFull, models.FundingPartial, models.FundingOther:
				return true
			}
			return false
		},
		"trackingstatus": func(fl validator.FieldLevel) bool {
			switch models.TrackingStatus(fl.Field().String()) {
			case models.TrackingSaved, models.TrackingPreparing, models.TrackingApplied,
				models.TrackingAwarded, models.TrackingRejected:
				return true
			}
			return false
		},
		"documenttype": func(fl validator.FieldLevel) bool {
			return models.DocumentType(fl.Field().String()).Valid()
		},
		"phone": func(fl validator.FieldLevel) bool {
			return CompiledPatterns.Phone.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register validation %q: %w", tag, err)
		}
	}
	return nil
}

// ValidateGPARange checks that optional GPA bounds lie in [0, 4] and min <= max.
func ValidateGPARange(r *models.GPARange) error {
	if r == nil {
		return nil
	}
	for _, b := range []*float64{r.Min, r.Max} {
		if b != nil && (*b < 0 || *b > 4) {
			return fmt.Errorf("gpa bounds must be between 0 and 4")
		}
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("gpa min must not exceed max")
	}
	return nil
}
