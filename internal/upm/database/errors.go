package database

import "errors"

var (
	ErrNotFound       = errors.New("database: account not found")
	ErrNameConflict   = errors.New("database: an account with that name already exists")
	ErrNoPath         = errors.New("database: no path associated with this database")
	ErrInvalidPath    = errors.New("database: path has no final component")
	ErrPathNotUnicode = errors.New("database: path is not valid UTF-8")
)
