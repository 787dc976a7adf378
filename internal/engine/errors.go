package engine

import "fmt"

// InvalidConfigError reports a malformed time window or milestone configuration.
// It is a programmer/config error and should surface at validation time rather
// than being swallowed inside a job run.
type InvalidConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config %s=%q: %s", e.Field, e.Value, e.Reason)
}
