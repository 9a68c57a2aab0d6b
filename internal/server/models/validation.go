// Package models defines server-side data models persisted in the database
// and the field rules records must satisfy before they are stored.
package models

import (
	"strings"
	"time"
)

// ValidationError lists every rule a record broke, in field order.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// currentYear is a seam for tests.
var currentYear = func() int { return time.Now().Year() }

type checker struct {
	errs []string
}

func (c *checker) add(msg string) {
	c.errs = append(c.errs, msg)
}

func (c *checker) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: c.errs}
}

func (c *checker) requiredString(v *string, msg string) bool {
	if v == nil || *v == "" {
		c.add(msg)
		return false
	}
	return true
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
