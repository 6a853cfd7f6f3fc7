package db

import "errors"

var (
	// ErrKeyNotFound is returned for a missing key or an empty hash.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexNotFound is returned by DropIndex for an unknown index.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned by CreateIndex when the name is taken.
	ErrIndexExists = errors.New("db: index already exists")
)

// Operation names the backend command or statement that failed.
const (
	OpConnect     = "CONNECT"
	OpPing        = "PING"
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"
	OpGeoAdd      = "GEOADD"
	OpGeoPos      = "GEOPOS"
	OpQuery       = "SELECT"
	OpInsert      = "INSERT"
)

// Error is a backend failure annotated with the operation and, when there
// is one, the key or index it touched.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

