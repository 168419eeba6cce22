package formsource

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-autofill/pkg/dategroup"
	"github.com/goliatone/go-autofill/pkg/detect"
	"github.com/goliatone/go-autofill/pkg/field"
)

// Field is one control of a form document. The embedded descriptor carries
// the textual attributes the matcher reads; Category is an optional
// pre-classification and Options the discrete choices of select-like
// controls.
type Field struct {
	field.Descriptor
	Category string                    `json:"category,omitempty"`
	Options  []dategroup.ControlOption `json:"options,omitempty"`

	control *MemorySelect
}

// Document is a parsed form description.
type Document struct {
	Title  string  `json:"title,omitempty"`
	URL    string  `json:"url,omitempty"`
	Fields []Field `json:"fields"`
}

// Parse decodes a JSON form document and attaches in-memory select controls
// to fields that advertise options.
func Parse(raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("formsource: raw document is empty")
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("formsource: decode document: %w", err)
	}
	if len(doc.Fields) == 0 {
		return Document{}, errors.New("formsource: document has no fields")
	}
	doc.bind()
	return doc, nil
}

// bind attaches one select control per option-bearing field. Idempotent, so
// derived documents can call it after assembling fields by hand.
func (d *Document) bind() {
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.control != nil || len(f.Options) == 0 {
			continue
		}
		f.control = NewMemorySelect(f.Options...)
		if f.Type == "" {
			f.Type = "select"
		}
	}
}

// Descriptors converts the document into matcher input. Option-bearing
// fields carry their select control as the descriptor handle; repeated calls
// reference the same control instances.
func (d Document) Descriptors() []field.Descriptor {
	out := make([]field.Descriptor, 0, len(d.Fields))
	for _, f := range d.Fields {
		desc := f.Descriptor
		if f.Descriptor.Bounds != nil {
			bounds := *f.Descriptor.Bounds
			desc.Bounds = &bounds
		}
		if f.control != nil {
			desc.Handle = f.control
		}
		out = append(out, desc)
	}
	return out
}

// Categories returns a classifier backed by the document's category
// annotations. Unannotated fields fall back to what their control type
// implies.
func (d Document) Categories() detect.Classifier {
	byName := make(map[string]field.Category)
	byID := make(map[string]field.Category)
	for _, f := range d.Fields {
		if f.Category == "" {
			continue
		}
		category := field.Category(f.Category)
		if f.Name != "" {
			byName[f.Name] = category
		}
		if f.ID != "" {
			byID[f.ID] = category
		}
	}
	return detect.ClassifierFunc(func(desc field.Descriptor) field.Category {
		if desc.Name != "" {
			if category, ok := byName[desc.Name]; ok {
				return category
			}
		}
		if desc.ID != "" {
			if category, ok := byID[desc.ID]; ok {
				return category
			}
		}
		return typeCategory(desc.Type)
	})
}

// Controls returns the select controls bound to the document, keyed by field
// name (id when the name is empty).
func (d Document) Controls() map[string]*MemorySelect {
	out := make(map[string]*MemorySelect)
	for _, f := range d.Fields {
		if f.control == nil {
			continue
		}
		key := f.Name
		if key == "" {
			key = f.ID
		}
		if key == "" {
			continue
		}
		out[key] = f.control
	}
	return out
}

// typeCategory maps native input types onto categories.
func typeCategory(inputType string) field.Category {
	switch inputType {
	case "password":
		return field.CategoryPassword
	case "email":
		return field.CategoryEmail
	case "tel":
		return field.CategoryPhone
	case "date":
		return field.CategoryDate
	}
	return field.CategoryUnknown
}
