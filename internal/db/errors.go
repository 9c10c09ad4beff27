package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the stores care about.
const (
	errDuplicateEntry  = 1062
	errNoReferencedRow = 1452
)

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	return hasErrorNumber(err, errDuplicateEntry)
}

// IsMissingReference reports whether err is a foreign key violation on insert.
func IsMissingReference(err error) bool {
	return hasErrorNumber(err, errNoReferencedRow)
}

func hasErrorNumber(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}
