package domain

import "errors"

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrEmptyPrompt        = errors.New("empty prompt")
	ErrUnknownLanguage    = errors.New("unknown language")

	// ErrNoImage is returned by the retrying image generator for every failure path.
	ErrNoImage          = errors.New("no image produced")
	ErrNoImageData      = errors.New("response contained no image data")
	ErrThrottled        = errors.New("backend throttled the request")
	ErrRetriesExhausted = errors.New("max retries reached")
)
