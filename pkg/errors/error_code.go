package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeConfigurationMissing ErrorCode = 101
	ErrCodeInvalidParameter     ErrorCode = 102
	ErrCodeVersionMismatch      ErrorCode = 103

	// Upstream errors (200-299)
	ErrCodeTransportFailure      ErrorCode = 200
	ErrCodeUpstreamRequestFailed ErrorCode = 201
	ErrCodeUpstreamRejected      ErrorCode = 202

	// Data errors (300-399)
	ErrCodeMalformedMessage ErrorCode = 300
	ErrCodeDataIntegrity    ErrorCode = 301

	// Broadcast errors (400-499)
	ErrCodeEncodeFailed   ErrorCode = 400
	ErrCodeDeliveryFailed ErrorCode = 401

	// Lifecycle errors (500-599)
	ErrCodeTaskFailed      ErrorCode = 500
	ErrCodeAlreadyRunning  ErrorCode = 501
	ErrCodeShutdownTimeout ErrorCode = 502
)

// String returns a short name for the code, used as a label in logs and diagnostics.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidConfiguration:
		return "invalid_configuration"
	case ErrCodeConfigurationMissing:
		return "configuration_missing"
	case ErrCodeInvalidParameter:
		return "invalid_parameter"
	case ErrCodeVersionMismatch:
		return "version_mismatch"
	case ErrCodeTransportFailure:
		return "transport_failure"
	case ErrCodeUpstreamRequestFailed:
		return "upstream_request_failed"
	case ErrCodeUpstreamRejected:
		return "upstream_rejected"
	case ErrCodeMalformedMessage:
		return "malformed_message"
	case ErrCodeDataIntegrity:
		return "data_integrity"
	case ErrCodeEncodeFailed:
		return "encode_failed"
	case ErrCodeDeliveryFailed:
		return "delivery_failed"
	case ErrCodeTaskFailed:
		return "task_failed"
	case ErrCodeAlreadyRunning:
		return "already_running"
	case ErrCodeShutdownTimeout:
		return "shutdown_timeout"
	default:
		return "unknown"
	}
}
