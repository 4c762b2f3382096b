package client

import "errors"

var (
	ErrMissingBaseURL  = errors.New("missing base URL")
	ErrBadBaseURL      = errors.New("base URL must be absolute http(s)")
	ErrMissingAccount  = errors.New("missing account")
	ErrMissingPassword = errors.New("missing password")
	ErrBadGeneration   = errors.New("unknown protocol generation")
)
