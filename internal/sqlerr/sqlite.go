package sqlerr

import (
	"regexp"
	"strconv"
	"strings"

	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLite does not expose table and column as fields; they only appear in the
// message, e.g. "UNIQUE constraint failed: characters.name". Named CHECKs
// report the constraint name instead: "CHECK constraint failed: books_order_range".
var sqliteConstraintRe = regexp.MustCompile(`(UNIQUE|NOT NULL|CHECK|FOREIGN KEY) constraint failed(?:: (\w+)\.(\w+)|: (\w+))?`)

// ConvertSQLiteError converts a modernc.org/sqlite error into an Error.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	out := &Error{
		Code:         Other,
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(src.Code()),
		Message:      src.Error(),
		driverErr:    src,
	}

	switch src.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		out.Code = UniqueViolation
	case sqlite3lib.SQLITE_CONSTRAINT_NOTNULL:
		out.Code = NotNullViolation
	case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
		out.Code = ForeignKeyViolation
	case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
		out.Code = CheckViolation
	}

	// Extended codes may be off, in which case only the primary
	// SQLITE_CONSTRAINT comes back and the message decides.
	if m := sqliteConstraintRe.FindStringSubmatch(src.Error()); m != nil {
		if out.Code == Other && src.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT {
			switch m[1] {
			case "UNIQUE":
				out.Code = UniqueViolation
			case "NOT NULL":
				out.Code = NotNullViolation
			case "FOREIGN KEY":
				out.Code = ForeignKeyViolation
			case "CHECK":
				out.Code = CheckViolation
			}
		}
		out.TableName = m[2]
		out.ColumnName = m[3]

		if name := m[4]; name != "" {
			out.ConstraintName = name
			if table, _, ok := strings.Cut(name, "_"); ok {
				out.TableName = table
				out.ColumnName = columnFromConstraint(table, name)
			}
		}
	}

	return out
}
