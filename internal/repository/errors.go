// Package repository holds the MySQL data access layer. Every repository
// is a thin struct over *sql.DB issuing hand-written statements with `?`
// placeholders. The sentinel values below let services and handlers tell
// failure scenarios apart without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of the
// current state of the row. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by registration when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey reports whether err is MySQL's 1062 duplicate entry error.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "1062")
}
