package billing

import "errors"

// Verification errors. The webhook endpoint answers 400 for both.
var (
	ErrMissingSignature = errors.New("no stripe signature found")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

// ErrUndecodableEvent marks a correctly signed event whose object could not be parsed
var ErrUndecodableEvent = errors.New("stripe event object could not be decoded")
