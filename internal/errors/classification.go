package errors

import "net/http"

// ResponseFlag represents a standardized error classification code
// for failures talking to the key-value backend.
type ResponseFlag string

const (
	// Connection errors
	UCF ResponseFlag = "UCF" // Upstream connection failure
	UCT ResponseFlag = "UCT" // Upstream connection timeout
	URR ResponseFlag = "URR" // Upstream request rejected (connection reset)
	URT ResponseFlag = "URT" // Upstream request timeout
	EPI ResponseFlag = "EPI" // EPIPE - broken pipe
	NRH ResponseFlag = "NRH" // No route to host

	// DNS errors
	DNS ResponseFlag = "DNS" // DNS resolution failure

	// TLS errors
	TLH ResponseFlag = "TLH" // TLS handshake failed

	// Client errors
	CDC ResponseFlag = "CDC" // Client disconnected

	// Generic errors
	UPE ResponseFlag = "UPE" // Upstream protocol error (generic fallback)
)

// StatusClientClosedRequest is the non standard status logged when the
// client went away before the backend answered.
const StatusClientClosedRequest = 499

// String returns the string representation of the ResponseFlag.
func (f ResponseFlag) String() string {
	return string(f)
}

// ErrorClassification contains structured error information for logs and
// responses.
type ErrorClassification struct {
	// Flag is the standardized error code (e.g., "UCF", "URT")
	Flag ResponseFlag

	// Details provides a snake_case description of the error (e.g., "connection_refused")
	Details string

	// Target is the backend address that was being accessed (e.g., "redis:6379")
	Target string
}

// NewErrorClassification creates a new ErrorClassification with the given flag and details.
func NewErrorClassification(flag ResponseFlag, details string) *ErrorClassification {
	return &ErrorClassification{
		Flag:    flag,
		Details: details,
	}
}

// WithTarget sets the backend target and returns the classification for chaining.
func (ec *ErrorClassification) WithTarget(target string) *ErrorClassification {
	ec.Target = target
	return ec
}

// StatusCode maps the classification onto the HTTP status returned to the
// client. Timeouts are 504, a vanished client is 499, anything else is 502.
func (ec *ErrorClassification) StatusCode() int {
	switch ec.Flag {
	case URT, UCT:
		return http.StatusGatewayTimeout
	case CDC:
		return StatusClientClosedRequest
	default:
		return http.StatusBadGateway
	}
}
