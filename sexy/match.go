package sexy

import (
	"fmt"
	"strconv"
)

// MismatchError describes the first place where a pattern and a tree differ.
type MismatchError struct {
	Path    string
	Pattern *Node
	Actual  *Node
	Reason  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("at %s: %s\n  pattern: %s\n  actual:  %s", e.Path, e.Reason, e.Pattern, e.Actual)
}

// Match checks actual against pattern. Atoms must be equal. Lists and arrays
// must match item by item, except that an ellipsis item matches any run of
// zero or more items, and an ellipsis pattern matches any datum.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

// MatchString parses both sides and matches them.
func MatchString(pattern, actual string) error {
	p, err := Parse(pattern)
	if err != nil {
		return fmt.Errorf("pattern: %w", err)
	}
	a, err := Parse(actual)
	if err != nil {
		return fmt.Errorf("actual: %w", err)
	}
	return Match(p, a)
}

func match(pattern, actual *Node, path string) error {
	if pattern.Type == NodeEllipsis {
		return nil
	}
	mismatch := func(format string, args ...any) error {
		return &MismatchError{Path: path, Pattern: pattern, Actual: actual, Reason: fmt.Sprintf(format, args...)}
	}
	if pattern.Type != actual.Type {
		return mismatch("expected %s, got %s", pattern.Type, actual.Type)
	}
	if pattern.IsAtom() {
		if pattern.Text != actual.Text {
			return mismatch("expected %s, got %s", pattern, actual)
		}
		return nil
	}
	if head := pattern.Head(); head != "" && head != actual.Head() {
		return mismatch("expected (%s ...), got (%s ...)", head, actual.Head())
	}
	if !matchItems(pattern.Items, actual.Items, path) {
		// Report the first differing item when the shapes line up.
		if len(pattern.Items) == len(actual.Items) {
			for i := range pattern.Items {
				if err := match(pattern.Items[i], actual.Items[i], itemPath(path, pattern, i)); err != nil {
					return err
				}
			}
		}
		return mismatch("expected %d items, got %d", len(pattern.Items), len(actual.Items))
	}
	return nil
}

func matchItems(patterns, actuals []*Node, path string) bool {
	if len(patterns) == 0 {
		return len(actuals) == 0
	}
	if patterns[0].Type == NodeEllipsis {
		for skip := 0; skip <= len(actuals); skip++ {
			if matchItems(patterns[1:], actuals[skip:], path) {
				return true
			}
		}
		return false
	}
	if len(actuals) == 0 {
		return false
	}
	if match(patterns[0], actuals[0], path) != nil {
		return false
	}
	return matchItems(patterns[1:], actuals[1:], path)
}

func itemPath(path string, parent *Node, i int) string {
	if head := parent.Head(); head != "" {
		return path + "/" + head + "[" + strconv.Itoa(i) + "]"
	}
	return path + "[" + strconv.Itoa(i) + "]"
}
