package webhook

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidateURL checks that raw is an absolute https URL with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// ValidateEvents checks that at least one known event is selected.
func ValidateEvents(events []string) error {
	if len(events) == 0 {
		return fmt.Errorf("%w: at least one event required", ErrInvalidInput)
	}
	for _, e := range events {
		if !slices.Contains(Events, e) {
			return fmt.Errorf("%w: unknown event %q", ErrInvalidInput, e)
		}
	}
	return nil
}
