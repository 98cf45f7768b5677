package providers

import "fmt"

// ProviderError carries an error from an outbound service call. Status is the
// HTTP status when one was received, 0 for transport-level failures.
type ProviderError struct {
	Provider string
	Call     string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Provider, e.Call, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Call, e.Message)
}
