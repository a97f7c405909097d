package rsvp

import (
	"errors"
	"fmt"
	"strings"
)

// Field names as they appear on the wire.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldDessertChoice  = "dessert_choice"
	FieldDessertTopping = "dessert_topping"
)

const (
	ReasonMissing = "missing"
	ReasonUnknown = "unknown"
)

// ErrNotFound means no guest record matches the identifier.
var ErrNotFound = errors.New("rsvp not found")

// NotFoundMessage is what guests are told when their link does not resolve.
const NotFoundMessage = "We couldn't find your RSVP. Please contact us directly."

// FieldProblem names one rejected field.
type FieldProblem struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned before anything is persisted.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s is %s", p.Field, p.Reason))
	}
	return "invalid rsvp: " + strings.Join(parts, ", ")
}

// Fields lists the rejected field names in order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		fields = append(fields, p.Field)
	}
	return fields
}

// IsMissingSelection reports whether err is a validation error caused by an
// attending guest leaving out a dessert or topping.
func IsMissingSelection(err error) bool {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for _, p := range verr.Problems {
		if p.Reason == ReasonMissing && (p.Field == FieldDessertChoice || p.Field == FieldDessertTopping) {
			return true
		}
	}
	return false
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s rsvp: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError means the record was saved but at least one message was not sent.
type NotificationError struct {
	Identifier string
	Err        error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("rsvp %s saved but notification failed: %v", e.Identifier, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
