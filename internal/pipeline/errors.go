package pipeline

import "fmt"

// SequenceError reports a pipeline stage invoked out of order. It marks
// a programming mistake by the caller, not a data problem, so it is
// surfaced as a hard error rather than a logged boolean.
type SequenceError struct {
	Stage    string
	Requires string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("stage %s requires %s first", e.Stage, e.Requires)
}

// UnknownStepError reports a diagnostic step name that is not
// registered with the step runner.
type UnknownStepError struct {
	Name string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step: %s", e.Name)
}
