// Package apperr classifies failures of the ordering core so callers can
// present them without inspecting transport details.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindNetwork
	KindServer
	KindCacheCorruption
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindAuth:
		return "AUTH"
	case KindNetwork:
		return "NETWORK"
	case KindServer:
		return "SERVER"
	case KindCacheCorruption:
		return "CACHE_CORRUPTION"
	case KindConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// Message codes, translated by the i18n package.
const (
	CodeMissingOrderData     = "order.missing_data"
	CodeMissingCustomer      = "order.missing_customer"
	CodeEmptyCart            = "order.empty_cart"
	CodeSubmissionInProgress = "order.in_progress"
	CodeNotAuthenticated     = "auth.required"
	CodeUnreachable          = "network.unreachable"
	CodeServerError          = "server.error"
	CodeRouteNotFound        = "server.route_not_found"
	CodeCorruptCache         = "cache.corrupt"
)

// Error is a classified failure. Status is the HTTP status returned by the
// backend when there was one; Detail is the server-provided message.
type Error struct {
	Kind   Kind
	Code   string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Code
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidation(code string) *Error {
	return &Error{Kind: KindValidation, Code: code}
}

func NewAuth(err error) *Error {
	return &Error{Kind: KindAuth, Code: CodeNotAuthenticated, Err: err}
}

func NewNetwork(err error) *Error {
	return &Error{Kind: KindNetwork, Code: CodeUnreachable, Err: err}
}

// NewServer classifies a non-2xx response. 401 and 403 count as credential
// failures; 404 keeps its own code because it points at a misconfigured
// base URL rather than a business rejection.
func NewServer(status int, detail string) *Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindAuth, Code: CodeNotAuthenticated, Status: status, Detail: detail}
	case http.StatusNotFound:
		return &Error{Kind: KindServer, Code: CodeRouteNotFound, Status: status, Detail: detail}
	}
	return &Error{Kind: KindServer, Code: CodeServerError, Status: status, Detail: detail}
}

func NewCacheCorruption(key string, err error) *Error {
	return &Error{Kind: KindCacheCorruption, Code: CodeCorruptCache, Detail: key, Err: err}
}

// ErrSubmissionInProgress rejects a submit while another one is running.
var ErrSubmissionInProgress = &Error{Kind: KindConflict, Code: CodeSubmissionInProgress}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// RouteNotFound reports a 404 from the backend.
func RouteNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeRouteNotFound
}

// Retryable reports whether a user-initiated retry may succeed unchanged.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindServer:
		return true
	}
	return false
}
