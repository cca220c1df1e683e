package dispatch

import "context"

const UserAgent = "InteractiveSolutions/GoDispatch-1.0"

type EmailTransport interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SmsResult is the provider's view of one outbound message. Status values
// are provider-native; the sender treats queued/sending/sent as accepted.
type SmsResult struct {
	Sid          string
	Status       string
	ErrorCode    string
	ErrorMessage string
}

type SmsTransport interface {
	Send(ctx context.Context, to, message string) (SmsResult, error)
}

// Credentialed is implemented by transports that can tell whether their
// provider credential is present. A transport reporting false is a
// recoverable condition: the attempt is logged as failed, never a crash.
type Credentialed interface {
	Configured() bool
}

func transportConfigured(transport interface{}) bool {
	if transport == nil {
		return false
	}

	if c, ok := transport.(Credentialed); ok {
		return c.Configured()
	}

	return true
}
