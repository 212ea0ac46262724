package util

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidFormat       = errors.New("only PDF documents are supported")
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("permission denied")
	ErrUpstreamUnavailable = errors.New("upstream model unavailable")
	ErrDecryptionFailure   = errors.New("document decryption failed")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrSessionNotFound     = errors.New("session not found")
)
