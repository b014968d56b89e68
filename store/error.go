package store

import (
	"github.com/ardnew/chaintool/lang"
)

// Predefined errors (sentinel values).
var (
	ErrNotFound     = lang.NewError("no command or sequence with that name")
	ErrExists       = lang.NewError("name already exists")
	ErrNameConflict = lang.NewError("name in use by the other item type")
	ErrBadItemName  = lang.NewError("item names must be nonempty without whitespace or path separators")
	ErrBadRecord    = lang.NewError("malformed item record")
	ErrLockHeld     = lang.NewError("data directory is locked by another chaintool process")
)

// NotFoundError decorates [ErrNotFound] with the missing name and, when the
// store contains similarly spelled items, suggestions for it.
type NotFoundError struct {
	Name        string
	Suggestions []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := ErrNotFound.Error() + ": " + e.Name

	if len(e.Suggestions) > 0 {
		msg += " (did you mean: "

		for i, s := range e.Suggestions {
			if i > 0 {
				msg += ", "
			}

			msg += s
		}

		msg += "?)"
	}

	return msg
}

// Is reports whether target is the [ErrNotFound] sentinel.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound //nolint:err113
}
