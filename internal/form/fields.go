package form

import (
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/schema"
)

// NoOptionsHint is shown on a select whose vocabulary has no values
const NoOptionsHint = "No values yet — add some in Settings"

// Field is one metadata input as currently shown in the form
type Field struct {
	schema.FieldDescriptor
	Value       string
	Values      []string
	Options     []string
	Placeholder string
}

// fieldState is the edit-session record of one metadata input
type fieldState struct {
	desc   schema.FieldDescriptor
	single string
	multi  []string
}

func seedField(desc schema.FieldDescriptor, v models.MetaValue) *fieldState {
	fs := &fieldState{desc: desc}
	if desc.Kind == schema.KindMultiSelect {
		fs.multi = v.Values()
	} else {
		fs.single = v.String()
	}
	return fs
}

func (fs *fieldState) value() models.MetaValue {
	if fs.desc.Kind == schema.KindMultiSelect {
		return models.List(fs.multi...)
	}
	return models.Single(fs.single)
}

// collect returns the value to save and whether the key belongs in the metadata
func (fs *fieldState) collect() (models.MetaValue, bool) {
	if fs.desc.Kind == schema.KindMultiSelect {
		vals := make([]string, 0, len(fs.multi))
		for _, v := range fs.multi {
			if strings.TrimSpace(v) != "" {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			return models.MetaValue{}, false
		}
		return models.List(vals...), true
	}
	v := strings.TrimSpace(fs.single)
	if v == "" {
		return models.MetaValue{}, false
	}
	return models.Single(v), true
}
