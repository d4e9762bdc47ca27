package errors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"strings"
	"syscall"
)

// ClassifyBackendError analyzes an error returned by a backend call and
// returns a structured ErrorClassification. Returns nil if err is nil.
//
// The classification follows this priority order:
// 1. Unwrap net.OpError to get underlying error
// 2. Context errors (deadline before cancel)
// 3. Connection errors (syscall.ECONNREFUSED, ECONNRESET, etc.)
// 4. DNS errors (net.DNSError)
// 5. TLS errors
// 6. Timeout errors (net.Error.Timeout())
// 7. String-based fallback detection
// 8. Generic fallback (UPE)
func ClassifyBackendError(err error, target string) *ErrorClassification {
	if err == nil {
		return nil
	}

	// Check for context errors BEFORE net.Error timeout check
	// (context.DeadlineExceeded implements net.Error with Timeout() = true)
	if Is(err, context.DeadlineExceeded) {
		return NewErrorClassification(URT, "context_deadline_exceeded").WithTarget(target)
	}

	if Is(err, context.Canceled) {
		return NewErrorClassification(CDC, "client_disconnected").WithTarget(target)
	}

	var opErr *net.OpError
	if As(err, &opErr) {
		if opErr.Op == "dial" && opErr.Timeout() {
			return NewErrorClassification(UCT, "connection_timeout").WithTarget(target)
		}
	}

	var errno syscall.Errno
	if As(err, &errno) {
		if ec := classifyErrno(errno, target); ec != nil {
			return ec
		}
	}

	var dnsErr *net.DNSError
	if As(err, &dnsErr) {
		return NewErrorClassification(DNS, "dns_resolution_failed").WithTarget(target)
	}

	if ec := classifyTLSError(err, target); ec != nil {
		return ec
	}

	var netErr net.Error
	if As(err, &netErr) && netErr.Timeout() {
		return NewErrorClassification(URT, "request_timeout").WithTarget(target)
	}

	if ec := classifyByErrorString(err, target); ec != nil {
		return ec
	}

	return NewErrorClassification(UPE, "backend_error").WithTarget(target)
}

// classifyErrno maps syscall.Errno values to error classifications.
func classifyErrno(errno syscall.Errno, target string) *ErrorClassification {
	switch errno {
	case syscall.ECONNREFUSED:
		return NewErrorClassification(UCF, "connection_refused").WithTarget(target)
	case syscall.ETIMEDOUT:
		return NewErrorClassification(UCT, "connection_timeout").WithTarget(target)
	case syscall.ECONNRESET:
		return NewErrorClassification(URR, "connection_reset").WithTarget(target)
	case syscall.ENETUNREACH:
		return NewErrorClassification(NRH, "network_unreachable").WithTarget(target)
	case syscall.EHOSTUNREACH:
		return NewErrorClassification(NRH, "host_unreachable").WithTarget(target)
	case syscall.EPIPE:
		return NewErrorClassification(EPI, "broken_pipe").WithTarget(target)
	}
	return nil
}

func classifyTLSError(err error, target string) *ErrorClassification {
	var certInvalidErr x509.CertificateInvalidError
	var unknownAuthErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var recordHeaderErr tls.RecordHeaderError

	switch {
	case As(err, &certInvalidErr),
		As(err, &unknownAuthErr),
		As(err, &hostnameErr),
		As(err, &recordHeaderErr):
		return NewErrorClassification(TLH, "tls_handshake_failure").WithTarget(target)
	}
	return nil
}

// classifyByErrorString performs string-based pattern matching as a fallback.
func classifyByErrorString(err error, target string) *ErrorClassification {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "connection refused"):
		return NewErrorClassification(UCF, "connection_refused").WithTarget(target)
	case strings.Contains(errStr, "connection reset"):
		return NewErrorClassification(URR, "connection_reset").WithTarget(target)
	case strings.Contains(errStr, "broken pipe"):
		return NewErrorClassification(EPI, "broken_pipe").WithTarget(target)
	case strings.Contains(errStr, "no such host"):
		return NewErrorClassification(DNS, "dns_not_found").WithTarget(target)
	case strings.Contains(errStr, "i/o timeout"):
		return NewErrorClassification(URT, "request_timeout").WithTarget(target)
	case strings.Contains(errStr, "handshake failure"),
		strings.Contains(errStr, "remote error: tls:"):
		return NewErrorClassification(TLH, "tls_handshake_failure").WithTarget(target)
	}
	return nil
}
