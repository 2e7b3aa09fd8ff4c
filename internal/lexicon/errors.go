package lexicon

import (
	"errors"
	"fmt"
)

// ErrConfig is matched by every *ConfigError via errors.Is.
var ErrConfig = errors.New("invalid configuration")

// ConfigError reports a malformed lexicon, score range or tier table. It is
// returned at load time and is never recovered silently.
type ConfigError struct {
	Section string
	Field   string
	Reason  string
}

func NewConfigError(section, field, format string, args ...any) *ConfigError {
	return &ConfigError{Section: section, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s config: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("%s config: %s: %s", e.Section, e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
