package model

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a missing or malformed topology parameter. The model
// cannot be built while one is present.
type ConfigurationError struct {
	Param  string // Param - имя параметра конфигурации.
	Reason string // Reason - описание проблемы.
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Param, e.Reason)
}

func missingStrands(ids []int) *ConfigurationError {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = fmt.Sprint(id)
	}
	return &ConfigurationError{
		Param:  "strands",
		Reason: fmt.Sprintf("no configured length for strand id(s) %s", strings.Join(s, ", ")),
	}
}
