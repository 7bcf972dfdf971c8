// services/errors.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"matchboard/repository"
)

// ValidationError carries one message per offending field.
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
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

// orNil returns nil when no field failed so callers can `return v.orNil()`.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// InvalidStateError reports an operation that the entity's current state does not allow.
type InvalidStateError struct {
	Entity string
	ID     string
	State  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %q is %s", e.Entity, e.ID, e.State)
}

// StorageError wraps an unexpected persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrInvalidCredentials is returned by VerifyLogin for both unknown emails and bad passwords.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUploadsDisabled is returned when no avatar store is configured.
var ErrUploadsDisabled = errors.New("avatar uploads are not configured")

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// lookupErr turns repository.ErrNotFound into a NotFoundError and anything else into a StorageError.
func lookupErr(entity, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return storageErr("get "+entity, err)
}

// passThrough keeps typed service errors returned from inside a transaction
// and wraps anything else as storage failure.
func passThrough(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		fe *ForbiddenError
		ie *InvalidStateError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &fe) || errors.As(err, &ie) {
		return err
	}
	return storageErr(op, err)
}
