package model

import "errors"

// ErrNotFound indicates a requested catalog entry, series id, or
// (series, time) index does not exist. Callers wrap it with the
// missing key so a lookup miss is never reported bare.
var ErrNotFound = errors.New("not found")
