package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed request so callers can react without matching on
// status codes themselves.
type Kind int

const (
	// KindNetwork means no response was received at all.
	KindNetwork Kind = iota
	// KindInvalidCredentials is a 401/403 on the authentication endpoint.
	KindInvalidCredentials
	// KindUnauthorized is a 401/403 on any other endpoint.
	KindUnauthorized
	// KindNotFound is a 404.
	KindNotFound
	// KindValidation is any other 4xx, usually carrying a server message
	// (duplicate category name, category still has products, ...).
	KindValidation
	// KindServer is a 5xx.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is the typed failure every request returns on a non-2xx response or
// transport problem. Services propagate it unchanged to the controllers.
type Error struct {
	Kind    Kind
	Status  int    // 0 for network errors
	Message string // server-provided message when decodable
	Err     error  // underlying transport error, if any
}

func (e *Error) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("api: network error: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s (%d)", e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

func IsInvalidCredentials(err error) bool { return IsKind(err, KindInvalidCredentials) }
func IsUnauthorized(err error) bool       { return IsKind(err, KindUnauthorized) }
func IsNotFound(err error) bool           { return IsKind(err, KindNotFound) }
func IsValidation(err error) bool         { return IsKind(err, KindValidation) }
func IsNetwork(err error) bool            { return IsKind(err, KindNetwork) }
func IsServer(err error) bool             { return IsKind(err, KindServer) }

// classify maps a non-2xx response to a typed Error. authRoute switches the
// 401/403 mapping between InvalidCredentials and Unauthorized.
func classify(status int, body []byte, authRoute bool) *Error {
	e := &Error{Status: status, Message: serverMessage(body)}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if authRoute {
			e.Kind = KindInvalidCredentials
		} else {
			e.Kind = KindUnauthorized
		}
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status >= 400 && status < 500:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}

	return e
}

// serverMessage pulls a human-readable message out of an error body.
// Spring-style backends use {"message": ...}; some use {"error": ...};
// anything else is returned as trimmed plain text.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		ErrMsg  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.ErrMsg != "" {
			return payload.ErrMsg
		}
	}

	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
