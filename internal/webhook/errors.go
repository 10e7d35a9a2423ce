package webhook

import "errors"

// Rejection taxonomy for inbound deliveries. Only ErrStorageWriteFailed maps
// to a 5xx inviting a sender retry; everything else is permanent for that
// payload.
var (
	ErrUnauthorized       = errors.New("webhook: unauthorized")
	ErrMalformedPayload   = errors.New("webhook: malformed payload")
	ErrUnrecognizedShape  = errors.New("webhook: unrecognized payload shape")
	ErrMissingAssistantID = errors.New("webhook: assistant id not found in payload")
	ErrMissingCallID      = errors.New("webhook: call id not found in payload")
	ErrAgentNotFound      = errors.New("webhook: no agent for assistant id")
	ErrStorageWriteFailed = errors.New("webhook: storage write failed")
)
