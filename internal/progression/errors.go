package progression

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrModuleLocked = errors.New("module locked")
	ErrPersistence  = errors.New("persistence failure")
)

// LockedError 访问前置模块未完成的模块时返回，RedirectModuleID 为应跳转到的模块
type LockedError struct {
	ModuleID         string
	RedirectModuleID string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("module %s is locked, continue with %s", e.ModuleID, e.RedirectModuleID)
}

func (e *LockedError) Is(target error) bool {
	return target == ErrModuleLocked
}

// Invalidf wraps ErrInvalidInput with a formatted reason.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted reason.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// PersistenceErr wraps a store failure so callers can match ErrPersistence
// while keeping the underlying error.
func PersistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
