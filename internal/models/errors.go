package models

import "errors"

// ErrNotFound is returned by repositories for missing rows.
var ErrNotFound = errors.New("record not found")
