package fetcher

import (
	"errors"
	"fmt"
)

// ErrThrottled is returned when a fetch is attempted sooner than source.minInterval after the previous one.
var ErrThrottled = errors.New("fetch throttled")

type FetchErrorKind int

const (
	NetworkFailure FetchErrorKind = iota + 1
	HttpError
)

func (k FetchErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "NetworkFailure"
	case HttpError:
		return "HttpError"
	}
	return "Unknown"
}

type FetchError struct {
	Kind   FetchErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == HttpError {
		return fmt.Sprintf("drawing source responded %d", e.Status)
	}
	return fmt.Sprintf("drawing source unreachable: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
