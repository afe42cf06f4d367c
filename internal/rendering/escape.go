package rendering

import (
	"fmt"
	"strings"
)

var texReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes the characters LaTeX treats specially: \ { } $ & % # ^ _ ~
func EscapeLaTeX(text string) string {
	return texReplacer.Replace(text)
}

// escapeValue is the template-facing form of EscapeLaTeX. Context values arrive as
// strings, json.Number or nil.
func escapeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return EscapeLaTeX(x)
	default:
		return EscapeLaTeX(fmt.Sprint(x))
	}
}
