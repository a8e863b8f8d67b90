package httperr

import "errors"

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindState      Kind = "state"
	KindForbidden  Kind = "forbidden"
	KindUpstream   Kind = "upstream"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrState(code string) error {
	return BusinessError{Kind: KindState, Code: code}
}

func ErrForbidden(code string) error {
	return BusinessError{Kind: KindForbidden, Code: code}
}

func ErrUpstream(code string) error {
	return BusinessError{Kind: KindUpstream, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns "" for errors that are not business errors.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// Codes shared across packages.
const (
	CodeTimeConflict         = "time_conflict"
	CodeSlotTakenConcurrency = "slot_taken_concurrency"
)
