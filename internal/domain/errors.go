package domain

import (
	"errors"
	"fmt"
)

// Kind tags an operational failure of the bot.
type Kind int

const (
	// KindAPIAccess: the homework endpoint could not be reached at all.
	KindAPIAccess Kind = iota + 1
	// KindHTTPStatus: the endpoint answered with a non-200 status.
	KindHTTPStatus
	// KindShape: the response body or its homeworks field has the wrong shape.
	KindShape
	// KindMissingField: a homework record lacks a required key.
	KindMissingField
	// KindUnknownStatus: a homework record carries a status outside Verdicts.
	KindUnknownStatus
	// KindNotification: a chat message could not be delivered.
	KindNotification
)

// String returns a stable tag usable as a log field.
func (k Kind) String() string {
	switch k {
	case KindAPIAccess:
		return "api_access"
	case KindHTTPStatus:
		return "http_status"
	case KindShape:
		return "shape"
	case KindMissingField:
		return "missing_field"
	case KindUnknownStatus:
		return "unknown_status"
	case KindNotification:
		return "notification"
	default:
		return "unknown"
	}
}

// Default operator-facing messages.
const (
	MsgAPIAccess     = "Не удалось получить доступ к API."
	MsgNotMapping    = "Тип данных не является словарём."
	MsgNotList       = "Тип данных не является списком."
	MsgMissingKey    = "Ключ не найден."
	MsgUnknownStatus = "Неизвестный статус."
)

// Error is the tagged error type for every expected failure of a poll iteration.
type Error struct {
	Kind Kind
	Msg  string
	Err  error

	// Set for KindHTTPStatus only.
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Kind == KindHTTPStatus && e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error of the given kind.
func NewError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
