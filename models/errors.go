package models

import (
	"errors"
	"fmt"
)

// Kind classifies failures of an analysis run.
type Kind string

const (
	KindConfiguration      Kind = "CONFIGURATION_ERROR"
	KindSourceUnavailable  Kind = "SOURCE_UNAVAILABLE"
	KindRecordMalformed    Kind = "RECORD_MALFORMED"
	KindExtractionEmpty    Kind = "EXTRACTION_EMPTY"
	KindTranslationFailure Kind = "TRANSLATION_FAILURE"
)

// Fatal reports whether an error of this kind aborts the run.
func (k Kind) Fatal() bool {
	return k == KindConfiguration || k == KindExtractionEmpty
}

// Sentinels for errors.Is comparisons.
var (
	ErrConfiguration      = &Error{kind: KindConfiguration, message: "invalid run configuration"}
	ErrSourceUnavailable  = &Error{kind: KindSourceUnavailable, message: "no real data available"}
	ErrRecordMalformed    = &Error{kind: KindRecordMalformed, message: "record cannot be normalized"}
	ErrExtractionEmpty    = &Error{kind: KindExtractionEmpty, message: "no data extracted"}
	ErrTranslationFailure = &Error{kind: KindTranslationFailure, message: "translation failed"}
)

type Error struct {
	kind    Kind
	message string
	cause   error
}

// NewError builds an error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new error of the given kind.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{kind: kind, message: message, cause: err}
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind, so sentinels compare by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.kind == e.kind
}

// KindOf returns the kind carried by err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return ""
}
