package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category groups events under a name.
type Category struct {
	Name      string
	CreatedAt time.Time
}

// CategoryNames is the list of categories an event is tagged with.
// Payloads may carry one name or several; both decode into the same
// normalized, ordered, duplicate-free slice.
type CategoryNames []string

// NewCategoryNames normalizes raw names: trims blanks, drops empties and
// keeps the first occurrence of each name.
func NewCategoryNames(raw ...string) CategoryNames {
	out := make(CategoryNames, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// UnmarshalJSON accepts either "Music" or ["Music", "Art"].
func (c *CategoryNames) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*c = NewCategoryNames(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("categories must be a string or a list of strings: %w", err)
	}
	*c = NewCategoryNames(many...)
	return nil
}

// Normalize returns the normalized form of c.
func (c CategoryNames) Normalize() CategoryNames {
	return NewCategoryNames(c...)
}

func (c CategoryNames) String() string {
	return strings.Join(c, ", ")
}
