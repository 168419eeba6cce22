// Package field defines the descriptor value types shared by the matcher,
// the refinement pass, and the date grouper. Descriptors are plain snapshots
// of a form control's textual attributes; extraction from a live document is
// the caller's concern.
package field

// Rect is an absolute layout box in document coordinates. Only Top and Left
// participate in proximity tests; Width and Height are carried for callers
// that have them.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Descriptor captures the identifying attributes of a single form control.
// All strings may be empty. Handle is an opaque reference back to the live
// control, owned by whoever writes values; nothing in this module mutates it.
type Descriptor struct {
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	AriaLabel   string `json:"ariaLabel,omitempty"`
	Type        string `json:"type,omitempty"`
	Bounds      *Rect  `json:"bounds,omitempty"`
	Handle      any    `json:"-"`
}

// Identifiers returns the descriptor's non-empty identifying attributes in
// match priority order: name, id, label, placeholder, aria-label.
func (d Descriptor) Identifiers() []string {
	out := make([]string, 0, 5)
	for _, s := range []string{d.Name, d.ID, d.Label, d.Placeholder, d.AriaLabel} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsPassword reports whether the control is a native password input.
func (d Descriptor) IsPassword() bool {
	return d.Type == "password"
}

// SelectLike reports whether the control exposes a discrete option list, either
// as a native select or an ARIA listbox widget.
func (d Descriptor) SelectLike() bool {
	switch d.Type {
	case "select", "select-one", "listbox":
		return true
	}
	return false
}
