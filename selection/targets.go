package selection

import (
	"strings"

	"github.com/npillmayer/textbuffer/pixbuf"
)

// TargetFlags restrict where a target may be delivered to.
type TargetFlags uint8

// Target flags. A zero value places no restriction.
const (
	TargetSameApp TargetFlags = 1 << iota
	TargetSameWidget
	TargetOtherApp
	TargetOtherWidget
)

// TargetEntry is a single target of a TargetList. Info is a client value
// handed back to the content provider.
type TargetEntry struct {
	Target Atom
	Flags  TargetFlags
	Info   uint32
}

// TargetList is an ordered set of targets.
type TargetList struct {
	entries []TargetEntry
}

// NewTargetList creates a target list from entries.
func NewTargetList(entries ...TargetEntry) *TargetList {
	tl := &TargetList{}
	tl.AddTable(entries)
	return tl
}

// Add appends a target. A target already present is left untouched.
func (tl *TargetList) Add(target Atom, flags TargetFlags, info uint32) {
	if _, ok := tl.Find(target); ok {
		return
	}
	tl.entries = append(tl.entries, TargetEntry{Target: target, Flags: flags, Info: info})
}

// AddTable adds every entry of a table of targets.
func (tl *TargetList) AddTable(entries []TargetEntry) {
	for _, e := range entries {
		tl.Add(e.Target, e.Flags, e.Info)
	}
}

// Remove takes a target out of the list.
func (tl *TargetList) Remove(target Atom) {
	for i, e := range tl.entries {
		if e.Target == target {
			tl.entries = append(tl.entries[:i], tl.entries[i+1:]...)
			return
		}
	}
}

// Find returns the info value of a target.
func (tl *TargetList) Find(target Atom) (uint32, bool) {
	for _, e := range tl.entries {
		if e.Target == target {
			return e.Info, true
		}
	}
	return 0, false
}

// Entries returns a copy of the entries of the list.
func (tl *TargetList) Entries() []TargetEntry {
	return append([]TargetEntry(nil), tl.entries...)
}

// Atoms returns the targets of the list, in order.
func (tl *TargetList) Atoms() []Atom {
	atoms := make([]Atom, len(tl.entries))
	for i, e := range tl.entries {
		atoms[i] = e.Target
	}
	return atoms
}

// Len returns the number of targets.
func (tl *TargetList) Len() int {
	return len(tl.entries)
}

// AddTextTargets adds the targets a text provider is able to deliver.
func (tl *TargetList) AddTextTargets(info uint32) {
	tl.Add(TypeUTF8String, 0, info)
	tl.Add(TypeCompoundText, 0, info)
	tl.Add(TypeText, 0, info)
	tl.Add(TypeString, 0, info)
	tl.Add(TypeTextPlainUTF8, 0, info)
	tl.Add(TypeTextPlain, 0, info)
}

// AddImageTargets adds a target for every mime type of the image codec
// registry, PNG first. If writable is set, formats which are read-only are
// left out.
func (tl *TargetList) AddImageTargets(info uint32, writable bool) {
	for _, f := range pixbuf.Formats() {
		if writable && !f.Writable() {
			continue
		}
		for _, mime := range f.MimeTypes() {
			tl.Add(Intern(mime), 0, info)
		}
	}
}

// AddURITargets adds the URI list target.
func (tl *TargetList) AddURITargets(info uint32) {
	tl.Add(TypeURIList, 0, info)
}

// AddRichTextTargets adds rich-text formats. Text buffers report their
// serialization formats (for a selection source) or deserialization formats
// (for a destination); both are restricted to the same application.
func (tl *TargetList) AddRichTextTargets(info uint32, formats []Atom) {
	for _, f := range formats {
		tl.Add(f, TargetSameApp, info)
	}
}

// --- Predicates ------------------------------------------------------------

func isTextTarget(a Atom) bool {
	switch a {
	case TypeUTF8String, TypeCompoundText, TypeText, TypeString,
		TypeTextPlain, TypeTextPlainUTF8:
		return true
	}
	_, ok := charsetOf(a)
	return ok
}

// TargetsIncludeText is true if any target delivers text.
func TargetsIncludeText(targets []Atom) bool {
	for _, a := range targets {
		if isTextTarget(a) {
			return true
		}
	}
	return false
}

// TargetsIncludeImage is true if any target delivers an image in a known
// format. If writable is set, only formats which may be encoded count.
func TargetsIncludeImage(targets []Atom, writable bool) bool {
	for _, a := range targets {
		if f, ok := pixbuf.FormatForMimeType(a.Name()); ok && (!writable || f.Writable()) {
			return true
		}
	}
	return false
}

// TargetsIncludeURI is true if a URI list target is present.
func TargetsIncludeURI(targets []Atom) bool {
	for _, a := range targets {
		if a == TypeURIList {
			return true
		}
	}
	return false
}

// TargetsIncludeRichText is true if any target is one of formats.
func TargetsIncludeRichText(targets []Atom, formats []Atom) bool {
	for _, a := range targets {
		for _, f := range formats {
			if a == f {
				return true
			}
		}
	}
	return false
}

// charsetOf extracts the charset parameter of a "text/plain;charset=…"
// target.
func charsetOf(a Atom) (string, bool) {
	name := strings.ToLower(a.Name())
	const prefix = "text/plain;charset="
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	return strings.TrimSpace(name[len(prefix):]), true
}
