package errs

import (
	"errors"
)

var (
	// ErrExtractionFailed indicates a required script block or literal is missing or malformed in page text.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrEvaluatorFailed indicates the password expression could not be evaluated to a usable string.
	ErrEvaluatorFailed = errors.New("evaluator failed")
	// ErrDecodeFailed indicates the encoded word is not valid base64 or lacks the salted payload framing.
	ErrDecodeFailed = errors.New("decode failed")
	// ErrKeyDerivationFailed indicates invalid key derivation parameters.
	ErrKeyDerivationFailed = errors.New("key derivation failed")
	// ErrCipherFailed indicates failure during decryption or padding validation.
	ErrCipherFailed = errors.New("cipher failed")
	// ErrLengthMismatch indicates the decrypted fragment count differs from the base URL count.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrInvalidInput indicates a caller-supplied page, order, query, URL or domain failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrHTTPStatus indicates the remote site answered with a non-success status after retries.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrNoPages indicates a chapter resolved to an empty page list, so there is nothing to download.
	ErrNoPages = errors.New("no pages")
)
