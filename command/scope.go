package command

import "strings"

// Separator divides the levels of a scope path.
const Separator = "."

// ValidateScope checks that s can be used as a scope. A scope must not be
// empty, must not begin or end with Separator, and must not have two
// Separators in a row. The returned error is a *ValidationError if s is not
// valid.
func ValidateScope(s string) error {
	if s == "" {
		return &ValidationError{Value: s, Reason: "scope cannot be empty"}
	}
	if strings.HasPrefix(s, Separator) || strings.HasSuffix(s, Separator) {
		return &ValidationError{Value: s, Reason: "scope may not start or end with " + Separator}
	}
	if strings.Contains(s, Separator+Separator) {
		return &ValidationError{Value: s, Reason: "scope may not contain " + Separator + Separator}
	}
	return nil
}

// IsActive returns whether a command restricted to patternScope is available
// when the player is in the current scope. An empty patternScope is active
// everywhere, and an empty current scope activates only unscoped commands.
//
// "foo" is active in "foo" and "foo.bar" but not in "foobar".
func IsActive(patternScope, current string) bool {
	if patternScope == "" {
		return true
	}
	if current == "" {
		return false
	}
	return current == patternScope || strings.HasPrefix(current, patternScope+Separator)
}

// Depth gives how deeply nested the scope is. The empty scope has depth 0,
// "foo" has depth 1, "foo.bar" has depth 2, and so on.
func Depth(scope string) int {
	if scope == "" {
		return 0
	}
	return 1 + strings.Count(scope, Separator)
}

// Scope holds the current scope of a player. The zero value is ready to use
// and has no scope set.
//
// Scope is not safe for concurrent use.
type Scope struct {
	current string
}

// NewScope creates a Scope that is set to the given value. If initial is empty
// the Scope starts out unset.
func NewScope(initial string) (*Scope, error) {
	sc := &Scope{}
	if initial == "" {
		return sc, nil
	}
	if err := sc.Set(initial); err != nil {
		return nil, err
	}
	return sc, nil
}

// Set changes the current scope. If value is not a valid scope, a
// *ValidationError is returned and the prior scope is kept.
func (sc *Scope) Set(value string) error {
	if err := ValidateScope(value); err != nil {
		return err
	}
	sc.current = value
	return nil
}

// Clear unsets the current scope.
func (sc *Scope) Clear() {
	sc.current = ""
}

// Get returns the current scope and whether one is set.
func (sc *Scope) Get() (string, bool) {
	if sc == nil {
		return "", false
	}
	return sc.current, sc.current != ""
}

// Current returns the current scope, or the empty string if none is set. A
// nil *Scope is treated as unset.
func (sc *Scope) Current() string {
	if sc == nil {
		return ""
	}
	return sc.current
}

// Depth is shorthand for Depth(sc.Current()).
func (sc *Scope) Depth() int {
	return Depth(sc.Current())
}

func (sc *Scope) String() string {
	if sc.Current() == "" {
		return "(none)"
	}
	return sc.current
}
