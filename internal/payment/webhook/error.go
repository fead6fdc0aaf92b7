package webhook

import "fmt"

// AuthenticationError rejects a delivery whose signature could not be verified.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "webhook authentication failed: " + e.Reason
}

// MalformedPayloadError rejects a delivery that is not a valid event: bad
// JSON, missing fields, or a description that breaks the reference grammar.
type MalformedPayloadError struct {
	Reason string
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed webhook payload: %s: %v", e.Reason, e.Err)
	}
	return "malformed webhook payload: " + e.Reason
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}
