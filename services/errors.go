package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidStatus      = errors.New("invalid status")
	ErrTerminalStatus     = errors.New("order is already in a terminal status")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminExists        = errors.New("admin account already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidAction      = errors.New("invalid action")
)

// ValidationError carries one message per offending field. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, message string) error {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}
