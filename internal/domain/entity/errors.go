package entity

import "errors"

// ErrValidation marks constructor failures caused by bad input, so the HTTP
// layer can map them to a client error.
var ErrValidation = errors.New("validation failed")
