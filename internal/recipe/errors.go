package recipe

import (
	"fmt"
	"strings"
)

// MalformedRecipeError reports a structural violation: a required top-level
// key is absent or a field has the wrong shape.
type MalformedRecipeError struct {
	Path   string
	Field  string
	Reason string
}

func (e *MalformedRecipeError) Error() string {
	var b strings.Builder
	b.WriteString("malformed recipe")
	if strings.TrimSpace(e.Path) != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if strings.TrimSpace(e.Field) != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	if strings.TrimSpace(e.Reason) != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

// InvalidAxisError reports an axis whose value set is empty or not a list.
type InvalidAxisError struct {
	Path   string
	Group  int
	Axis   string
	Reason string
}

func (e *InvalidAxisError) Error() string {
	var b strings.Builder
	b.WriteString("invalid axis")
	if strings.TrimSpace(e.Path) != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	fmt.Fprintf(&b, ": products[%d]", e.Group)
	if strings.TrimSpace(e.Axis) != "" {
		fmt.Fprintf(&b, " axis %q", e.Axis)
	}
	if strings.TrimSpace(e.Reason) != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}
