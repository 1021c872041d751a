package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the ownership state of a media item
type Status string

const (
	StatusWishlist Status = "wishlist"
	StatusOwned    Status = "owned"

	// legacy values, still displayed when old items carry them
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDropped    Status = "dropped"
)

// EditableStatuses are the statuses offered when editing an item
var EditableStatuses = []Status{StatusWishlist, StatusOwned}

var statusLabels = map[Status]string{
	StatusWishlist:   "Wishlist",
	StatusOwned:      "Owned",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusDropped:    "Dropped",
}

// Label returns the display name of the status
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Editable reports whether the status may be chosen in the editor
func (s Status) Editable() bool {
	return s == StatusWishlist || s == StatusOwned
}

// ParseStatus accepts any known status, legacy ones included
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusLabels[st]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Grade is a letter-grade rating
type Grade string

var grades = []Grade{"F", "D-", "D", "D+", "C-", "C", "C+", "B-", "B", "B+", "A-", "A", "A+"}

// Grades returns every grade ordered from worst to best
func Grades() []Grade {
	out := make([]Grade, len(grades))
	copy(out, grades)
	return out
}

// ParseGrade validates a letter grade, case-insensitively
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range grades {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown grade %q", s)
}

// Rank orders grades; F is 0 and A+ is 12. Unknown grades rank -1.
func (g Grade) Rank() int {
	for i, known := range grades {
		if g == known {
			return i
		}
	}
	return -1
}

// MetaValue holds a metadata value, which is either a single string or a list of strings
type MetaValue struct {
	single string
	list   []string
	isList bool
}

// Single builds a single-valued metadata entry
func Single(v string) MetaValue {
	return MetaValue{single: v}
}

// List builds a multi-valued metadata entry
func List(vs ...string) MetaValue {
	out := make([]string, len(vs))
	copy(out, vs)
	return MetaValue{list: out, isList: true}
}

// IsList reports whether the value is multi-valued
func (v MetaValue) IsList() bool { return v.isList }

// String returns the single value, or the list joined with ", "
func (v MetaValue) String() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.single
}

// Values returns the value as a list; a blank single value yields an empty list
func (v MetaValue) Values() []string {
	if v.isList {
		out := make([]string, len(v.list))
		copy(out, v.list)
		return out
	}
	if v.single == "" {
		return nil
	}
	return []string{v.single}
}

// First returns the single value or the first element of the list
func (v MetaValue) First() string {
	if v.isList {
		if len(v.list) == 0 {
			return ""
		}
		return v.list[0]
	}
	return v.single
}

// IsEmpty reports whether the value carries nothing worth saving
func (v MetaValue) IsEmpty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return strings.TrimSpace(v.single) == ""
}

// MarshalJSON encodes a string or an array of strings
func (v MetaValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.single)
}

// MarshalYAML writes a scalar or a sequence, matching the JSON form
func (v MetaValue) MarshalYAML() (any, error) {
	if v.isList {
		return v.Values(), nil
	}
	return v.single, nil
}

// UnmarshalJSON tolerates whatever older items carry: strings, arrays, numbers, booleans and null
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = MetaValue{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Single(s)
	case data[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		vals := make([]string, 0, len(raw))
		for _, r := range raw {
			var item MetaValue
			if err := item.UnmarshalJSON(r); err != nil {
				return err
			}
			if s := item.String(); s != "" {
				vals = append(vals, s)
			}
		}
		*v = MetaValue{list: vals, isList: true}
	case data[0] == '{':
		*v = Single(string(data))
	default:
		// numbers and booleans keep their literal text
		*v = Single(string(data))
	}
	return nil
}

// Metadata maps field keys to values
type Metadata map[string]MetaValue

// Clone returns an independent copy
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		if v.isList {
			out[k] = List(v.list...)
		} else {
			out[k] = v
		}
	}
	return out
}
