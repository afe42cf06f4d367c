// Package registry maps governed content paths to document kinds and discovers them on disk.
package registry

import "fmt"

// UnroutableError represents a governed YAML file that no route claims
type UnroutableError struct {
	Path string
}

func (e *UnroutableError) Error() string {
	return fmt.Sprintf("unroutable file %s: no schema is registered for this path", e.Path)
}

// InvalidProfileError represents a profile name that cannot map to a file under data/profiles
type InvalidProfileError struct {
	Name  string
	Cause error
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile name %q: %v", e.Name, e.Cause)
}

func (e *InvalidProfileError) Unwrap() error {
	return e.Cause
}

// MissingDirError represents a governed directory that does not exist
type MissingDirError struct {
	Dir   string
	Cause error
}

func (e *MissingDirError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("governed directory %s is missing: %v", e.Dir, e.Cause)
	}
	return fmt.Sprintf("governed directory %s is missing", e.Dir)
}

func (e *MissingDirError) Unwrap() error {
	return e.Cause
}
