// Package selection resolves build manifests into the ordered, filtered content they select.
package selection

import (
	"fmt"
	"strings"
)

// Error represents an error that occurs while building the content index
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// BrokenReferenceError is a manifest reference that does not resolve. BulletID is empty
// when the entry itself is missing. Owner names where the identifier actually lives, if anywhere.
type BrokenReferenceError struct {
	Section   string
	EntryID   string
	BulletID  string
	Owner     string
	Available []string
}

func (e *BrokenReferenceError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "broken reference in %s: ", e.Section)
	if e.BulletID == "" {
		fmt.Fprintf(&sb, "entry %q not found", e.EntryID)
	} else {
		fmt.Fprintf(&sb, "bullet %q not found in entry %q", e.BulletID, e.EntryID)
	}
	if e.Owner != "" {
		fmt.Fprintf(&sb, " (it is %s)", e.Owner)
	}
	if e.BulletID != "" {
		fmt.Fprintf(&sb, "; available bullets: [%s]", strings.Join(e.Available, ", "))
	}
	return sb.String()
}
