package pipeline

import "fmt"

// BuildError reports the step a build stopped at
type BuildError struct {
	Step    string
	Message string
	Cause   error
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Step, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Step)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}
