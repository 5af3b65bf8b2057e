package exchange

import "fmt"

// APIError is returned when the exchange answers with a non-2xx status or
// a 2xx body whose status field is "err". Response keeps whatever the
// exchange sent so callers can surface it verbatim.
type APIError struct {
	StatusCode int
	Message    string
	Response   any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("exchange rejected action: %s", e.Message)
	}
	return fmt.Sprintf("exchange returned http %d", e.StatusCode)
}
