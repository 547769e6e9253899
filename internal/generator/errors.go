package generator

import "fmt"

// ConfigError reports a run that cannot start: no document, no target
// configuration or an invalid option.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "generator config: " + e.Reason
}

// Phase names the stage an ItemError happened in.
type Phase string

const (
	PhaseModel      Phase = "model"
	PhaseOperation  Phase = "operation"
	PhaseAPI        Phase = "api"
	PhaseSupporting Phase = "supporting file"
)

// ItemError wraps the failure of one model, operation or supporting file.
type ItemError struct {
	Phase Phase
	Item  string
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("could not generate %s %s: %v", e.Phase, e.Item, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
