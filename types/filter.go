package types

import (
	"fmt"
	"strings"
)

// FilterID identifies a filter installed on the node, e.g.
// "0x1407bf28e80aebf04cf757812428b076".
type FilterID string

// Validate checks the 0x-prefixed hex shape.
func (id FilterID) Validate() error {
	s := string(id)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return fmt.Errorf("filter id %q must be 0x-prefixed hex", s)
	}
	if len(s) == 2 {
		return fmt.Errorf("filter id %q is empty", s)
	}
	for _, c := range s[2:] {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return fmt.Errorf("filter id %q contains non-hex character %q", s, c)
		}
	}
	return nil
}
