package request

import (
	"regexp"
	"time"

	"github.com/medipoint/clinic-api/pkg/errors"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// E.164 shape, optional leading +.
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// Validate checks the contact snapshot and the preferred date against the
// supplied reading of the clock. Pure: no side effects, no store access.
func Validate(contactPhone, contactEmail string, preferredDate, now time.Time) error {
	if !phonePattern.MatchString(contactPhone) {
		return errors.NewInvalidPhone(contactPhone)
	}
	if !emailPattern.MatchString(contactEmail) {
		return errors.NewInvalidEmail(contactEmail)
	}
	if !preferredDate.After(now) {
		return errors.NewInvalidDate("preferred date must be in the future")
	}
	return nil
}
