package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = errors.New("unauthorized role access")
	ErrAdminSignup        = errors.New("admin accounts cannot be self-registered")
	ErrAccountLinked      = errors.New("account is linked to a different google identity")
	ErrValidation         = errors.New("validation failed")
	ErrUpstream           = errors.New("upstream service failed")
	ErrStorage            = errors.New("storage failure")
)

// ValidationError lists the offending fields; errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func upstreamErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}
