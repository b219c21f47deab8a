package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Error kinds exposed to callers. Repositories never leak driver errors;
// everything crossing the service boundary wraps one of these sentinels and
// can be tested with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrTransient  = errors.New("transient store error")
	ErrInternal   = errors.New("internal invariant violation")
)

// Error carries the entity and key context along with the kind sentinel.
type Error struct {
	Kind   error
	Entity string
	Key    string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s %s", e.Entity, e.Kind.Error())
	if e.Key != "" {
		s += fmt.Sprintf(" (key=%s)", e.Key)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func notFoundErr(entity, key string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, Key: key}
}

func conflictErr(entity, key, msg string) error {
	return &Error{Kind: ErrConflict, Entity: entity, Key: key, Msg: msg}
}

func validationErr(entity, msg string) error {
	return &Error{Kind: ErrValidation, Entity: entity, Msg: msg}
}

// translateDBError normalizes gorm/driver errors into the taxonomy above.
// GORM is opened with TranslateError so unique and foreign key violations
// arrive as gorm sentinels on both postgres and sqlite; raw pq errors are
// handled as a fallback for paths that bypass GORM's translation.
func translateDBError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundErr(entity, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflictErr(entity, key, "already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return conflictErr(entity, key, "referenced row missing or still referenced")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &Error{Kind: ErrTransient, Entity: entity, Key: key, Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return conflictErr(entity, key, pqErr.Detail)
		case "23503": // foreign_key_violation
			return conflictErr(entity, key, pqErr.Detail)
		case "23514": // check_violation
			return &Error{Kind: ErrValidation, Entity: entity, Key: key, Msg: pqErr.Detail}
		case "57014", "08006", "08003": // query_canceled, connection_failure
			return &Error{Kind: ErrTransient, Entity: entity, Key: key, Err: err}
		}
	}

	return &Error{Kind: ErrTransient, Entity: entity, Key: key, Err: err}
}
