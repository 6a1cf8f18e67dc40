package forecast

import "fmt"

// Failure classes surfaced by the fetch/normalize pipeline.
const (
	CodeUnconfigured  = "unconfigured"
	CodeInvalidInput  = "invalid_input"
	CodeUpstreamError = "upstream_error"
	CodeBadPayload    = "bad_payload"
	CodeTimeout       = "timeout"
	CodeNetworkError  = "network_error"
	CodeUnknown       = "unknown"
)

// Caller facing messages.
const (
	MsgInvalidInput = "Please provide either a city name or coordinates"
	MsgBadPayload   = "Invalid weather data received from service"
	MsgTimeout      = "Request timed out. Please try again."
	MsgNetworkError = "Unable to reach weather service. Please check your connection."
	MsgUnknown      = "Failed to fetch weather data"
)

// UnconfiguredMessage names the missing variable, never its value.
func UnconfiguredMessage(envName string) string {
	return fmt.Sprintf("Weather service is not configured. Please set the %s environment variable.", envName)
}

// UpstreamError is a non-success reply from the provider.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.Status, e.Message)
}
