// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package failure classifies the errors an invocation can end with. Every
// failure is terminal; nothing is retried.
package failure

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Kind is the top-level failure category.
type Kind int

const (
	KindUnknown       Kind = iota
	KindConfiguration      // bad or missing local input, raised before any remote call
	KindRemoteService      // session or remote call failed
	KindResolution         // a field or selection could not be resolved
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindRemoteService:
		return "remote service error"
	case KindResolution:
		return "resolution error"
	default:
		return "error"
	}
}

// ExitCode maps a kind to the process exit status.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration:
		return 2
	case KindRemoteService:
		return 3
	case KindResolution:
		return 4
	default:
		return 1
	}
}

// Error wraps a cause with its category.
type Error struct {
	Kind    Kind
	Op      string // remote operation, when known
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		if e.Message != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configuration reports invalid local input.
func Configuration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// WrapConfiguration reports invalid local input caused by err.
func WrapConfiguration(err error, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...), Err: err}
}

// Remote reports a failed remote operation, keeping the service message.
func Remote(op string, err error) *Error {
	return &Error{Kind: KindRemoteService, Op: op, Err: err}
}

// Resolution reports a resolver failure.
func Resolution(err error, format string, args ...any) *Error {
	return &Error{Kind: KindResolution, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the category of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Category refines remote service failures for operator hints.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNetwork
	CategoryTimeout
	CategoryAuthentication
	CategoryThrottled
	CategoryNotFound
	CategoryInvalidInput
	CategoryUnavailable
)

// Hint returns a short operator-facing suggestion for the category.
func (c Category) Hint() string {
	switch c {
	case CategoryNetwork:
		return "check network connectivity and the configured endpoint"
	case CategoryTimeout:
		return "the service did not answer in time; raise --timeout or retry later"
	case CategoryAuthentication:
		return "check the access token and that the account holds the required compliance role"
	case CategoryThrottled:
		return "the service is throttling requests; wait before running again"
	case CategoryNotFound:
		return "the requested object does not exist in this tenant"
	case CategoryInvalidInput:
		return "the service rejected the parameters"
	case CategoryUnavailable:
		return "the service is unavailable; retry later"
	default:
		return ""
	}
}

// ClassifyRemote categorizes a remote failure from its type and message.
func ClassifyRemote(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	if isTimeoutError(err) {
		return CategoryTimeout
	}
	if isNetworkError(err) {
		return CategoryNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "throttl") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return CategoryThrottled
	case strings.Contains(msg, "service unavailable") || strings.Contains(msg, "internal server error") || strings.Contains(msg, "bad gateway"):
		return CategoryUnavailable
	case strings.Contains(msg, "access denied") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "permission denied") || strings.Contains(msg, "invalid credentials"):
		return CategoryAuthentication
	case strings.Contains(msg, "not found") || strings.Contains(msg, "couldn't be found") || strings.Contains(msg, "does not exist"):
		return CategoryNotFound
	case strings.Contains(msg, "invalid") || strings.Contains(msg, "malformed") || strings.Contains(msg, "bad request"):
		return CategoryInvalidInput
	}
	return CategoryUnknown
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded")
}
