package sqlite

import (
	_ "modernc.org/sqlite"
)

// Registered database/sql driver names.
const (
	// DriverLibSQL is the Turso/libSQL driver (cgo).
	DriverLibSQL = "libsql"
	// DriverSQLite is the pure-Go modernc.org/sqlite driver.
	DriverSQLite = "sqlite"
)
