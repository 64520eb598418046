package survey

import (
	"fmt"
	"strconv"
)

// Kind is the answer-type tag of a subquestion.
type Kind string

const (
	// KindInt accepts base-10 integers only.
	KindInt Kind = "int"
	// KindText accepts any single-line string.
	KindText Kind = "text"
	// KindLText accepts any multi-line string.
	KindLText Kind = "ltext"
	// KindVInt accepts an integer or one of the configured sentinel
	// strings such as "b/d".
	KindVInt Kind = "vint"
)

func (k Kind) Valid() bool {
	switch k {
	case KindInt, KindText, KindLText, KindVInt:
		return true
	}
	return false
}

// Validate checks a submitted value against the kind's rule. Sentinels
// apply to KindVInt only.
func (k Kind) Validate(value string, sentinels []string) error {
	switch k {
	case KindInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("value %q is not an integer", value)
		}
		return nil
	case KindVInt:
		for _, s := range sentinels {
			if value == s {
				return nil
			}
		}
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("value %q is neither an integer nor an allowed value", value)
		}
		return nil
	case KindText, KindLText:
		return nil
	}
	return fmt.Errorf("unknown kind %q", k)
}
