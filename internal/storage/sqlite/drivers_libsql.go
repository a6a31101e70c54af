//go:build cgo

package sqlite

import (
	_ "github.com/tursodatabase/go-libsql"
)
