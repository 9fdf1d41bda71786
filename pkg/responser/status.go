// Package responser provides the uniform JSON envelope used for every API response.
package responser

import (
	"fmt"
)

// Status classifies a response independently of its transport status code.
type Status string

const (
	StatusInformation Status = "information"
	StatusSuccess     Status = "success"
	StatusRedirection Status = "redirection"
	StatusFailure     Status = "failure"
	StatusError       Status = "error"
)

// StatusFromCode buckets an HTTP status code by its hundreds digit.
// Codes outside [100, 599] are classified as StatusError.
func StatusFromCode(code int) Status {
	switch {
	case code >= 100 && code <= 199:
		return StatusInformation
	case code >= 200 && code <= 299:
		return StatusSuccess
	case code >= 300 && code <= 399:
		return StatusRedirection
	case code >= 400 && code <= 499:
		return StatusFailure
	default:
		return StatusError
	}
}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown responser status %q", s)
	}
	return st, nil
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInformation, StatusSuccess, StatusRedirection, StatusFailure, StatusError:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown responser status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	st, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}
