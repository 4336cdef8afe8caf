package blog

import (
	"errors"
	"net/http"
)

// ErrRecordNotFound is the store-level sentinel for a missing post or edit.
// The gorm store maps gorm.ErrRecordNotFound onto it so the engine stays
// storage-agnostic.
var ErrRecordNotFound = errors.New("record not found")

type WorkflowErrorKind int

const (
	// KindUnauthorized: the requester is not the principal this operation
	// is scoped to (wrong editor, wrong post author, or a third party).
	KindUnauthorized WorkflowErrorKind = iota
	// KindBadRequest: invalid input or a mutation attempted on an edit
	// whose status no longer allows it.
	KindBadRequest
	// KindForbidden: an accept/reject transition on an edit that is no
	// longer PENDING. The message names the current status.
	KindForbidden
	// KindNotFound: the referenced post or edit does not exist.
	KindNotFound
)

// WorkflowError is the closed error type for the edit workflow engine.
// Every engine failure is one of the four kinds above, so the transport
// mapping in HTTPStatus is total.
type WorkflowError struct {
	Kind WorkflowErrorKind
	Msg  string
}

func (e *WorkflowError) Error() string {
	return e.Msg
}

func (e *WorkflowError) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBadRequest:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func unauthorized(msg string) *WorkflowError {
	return &WorkflowError{Kind: KindUnauthorized, Msg: msg}
}

func badRequest(msg string) *WorkflowError {
	return &WorkflowError{Kind: KindBadRequest, Msg: msg}
}

func forbidden(msg string) *WorkflowError {
	return &WorkflowError{Kind: KindForbidden, Msg: msg}
}

func notFound(msg string) *WorkflowError {
	return &WorkflowError{Kind: KindNotFound, Msg: msg}
}
