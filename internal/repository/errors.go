// Package repository implements the persistence layer on top of
// database/sql. Repositories return sql.ErrNoRows for missing records
// and the sentinel values below for the failure modes higher layers
// need to distinguish.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
