package apperr

import (
	"errors"
	"strconv"

	"github.com/diewo77/go-salesagent/i18n"
)

// Message renders err as the text shown to the agent in lang.
func Message(err error, lang string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return i18n.Tf(lang, "unexpected", err.Error())
	}
	switch e.Code {
	case CodeServerError:
		detail := e.Detail
		if detail == "" {
			detail = i18n.T(lang, "server.unknown_message")
		}
		return i18n.Tf(lang, CodeServerError, e.Status, detail)
	default:
		return i18n.T(lang, e.Code)
	}
}

// OrderFailureMessage renders a failed submission the way the cart sheet
// reports it: the 404 message on its own, otherwise status code and
// server message with a retry hint.
func OrderFailureMessage(err error, lang string) string {
	var e *Error
	if !errors.As(err, &e) {
		return i18n.Tf(lang, "order.failed", i18n.T(lang, "unknown_status"), i18n.T(lang, "order.retry"))
	}
	switch e.Kind {
	case KindValidation, KindConflict, KindAuth:
		return Message(err, lang)
	}
	if e.Code == CodeRouteNotFound {
		return i18n.T(lang, CodeRouteNotFound)
	}
	status := i18n.T(lang, "unknown_status")
	if e.Status != 0 {
		status = strconv.Itoa(e.Status)
	}
	detail := e.Detail
	if detail == "" {
		detail = i18n.T(lang, "order.retry")
	}
	return i18n.Tf(lang, "order.failed", status, detail)
}
