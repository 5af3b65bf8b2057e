package metrics

// Metrics counts action attempts and failures. Handlers never branch on
// metrics, so a noop implementation is enough for tests.
type Metrics interface {
	ActionAttempt(action string)
	ActionFailure(action, reason string)
	RecordFailure()
}

type noop struct{}

func (noop) ActionAttempt(string)         {}
func (noop) ActionFailure(string, string) {}
func (noop) RecordFailure()               {}

func NewNoop() Metrics {
	return noop{}
}
