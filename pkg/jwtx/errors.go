package jwtx

import "errors"

var (
	// ErrMalformed covers any structurally broken input. It is deliberately
	// generic: callers must never learn which part of the decode failed.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrInvalidSignature means the payload does not match its signature.
	ErrInvalidSignature = errors.New("jwtx: invalid signature")

	// ErrExpired means the embedded expiry has passed.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrNotYetValid means the embedded not-before time is still in the
	// future. Minted tokens are valid immediately; only foreign tokens can
	// hit this.
	ErrNotYetValid = errors.New("jwtx: token not yet valid")

	// ErrSubjectMismatch means the embedded subject differs from the one the
	// caller expected to verify against.
	ErrSubjectMismatch = errors.New("jwtx: subject mismatch")
)
