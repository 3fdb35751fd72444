package repository

import "errors"

// ErrNoRowsAffected signals an update that matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")
