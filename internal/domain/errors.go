package domain

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingColumns     = errors.New("missing required columns")
	ErrMalformedUpload    = errors.New("the uploaded file is not valid CSV")
	ErrNothingToDisplay   = errors.New("nothing to display")
	ErrUnparsableDate     = errors.New("unparsable date")
	ErrMalformedStore     = errors.New("malformed record store")
	ErrLocationNotFound   = errors.New("location not found")
	ErrModelUnavailable   = errors.New("model unavailable")
)
