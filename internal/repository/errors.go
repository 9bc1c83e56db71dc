// Package repository holds the MySQL data access for users and their
// records.  Every per-user query is scoped by UserID, so a record owned by
// someone else is indistinguishable from one that does not exist.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist or is not
// owned by the caller.  Handlers translate it into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when registering a username that is taken.
// Handlers translate it into a 409 response.
var ErrUsernameExists = errors.New("username already exists")

const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// clockOf trims a TIME column ("07:45:00") to the HH:mm form records use.
func clockOf(raw string) string {
	if len(raw) > 5 {
		return raw[:5]
	}
	return raw
}

const dateLayout = "2006-01-02"
