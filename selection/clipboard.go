package selection

import (
	"sync/atomic"
)

// Clock delivers timestamps for selection ownership. Timestamps are
// non-decreasing; they are not corrected if a clock violates this.
type Clock interface {
	Now() uint32
}

// Counter is a Clock which simply counts.
type Counter struct {
	t atomic.Uint32
}

// Now is part of interface Clock. Every call advances the counter.
func (c *Counter) Now() uint32 {
	return c.t.Add(1)
}

// ContentProvider fills a payload for one of the targets it advertised.
// info is the info value of the target entry.
type ContentProvider func(p *Payload, info uint32)

// Clipboard is implemented by selection transports. Owners announce their
// targets with SetWithData; clients ask for content with RequestContents,
// which delivers its result asynchronously to the callback. A nil payload
// or a payload without data means the request failed.
type Clipboard interface {
	Selection() Atom
	SetWithData(targets *TargetList, provide ContentProvider, owner any) bool
	RequestContents(target Atom, receive func(p *Payload))
	Owner() any
	Clear(owner any)
}

// LocalClipboard is an in-process Clipboard. Requests are answered before
// RequestContents returns.
type LocalClipboard struct {
	selection Atom
	clock     Clock
	targets   *TargetList
	provide   ContentProvider
	owner     any
	stamp     uint32
}

var _ Clipboard = (*LocalClipboard)(nil)

// NewLocalClipboard creates a clipboard for a selection, e.g. ClipboardAtom.
// If clock is nil, a Counter is used.
func NewLocalClipboard(selection Atom, clock Clock) *LocalClipboard {
	if clock == nil {
		clock = &Counter{}
	}
	return &LocalClipboard{selection: selection, clock: clock}
}

// Selection is part of interface Clipboard.
func (cb *LocalClipboard) Selection() Atom {
	return cb.selection
}

// SetWithData is part of interface Clipboard.
func (cb *LocalClipboard) SetWithData(targets *TargetList, provide ContentProvider, owner any) bool {
	if targets == nil || provide == nil {
		return false
	}
	cb.targets = NewTargetList(targets.Entries()...)
	cb.provide = provide
	cb.owner = owner
	cb.stamp = cb.clock.Now()
	tracer().Debugf("clipboard %s: new owner with %d targets at %d", cb.selection, targets.Len(), cb.stamp)
	return true
}

// Owner is part of interface Clipboard.
func (cb *LocalClipboard) Owner() any {
	return cb.owner
}

// Timestamp returns the time the current owner took over the clipboard.
func (cb *LocalClipboard) Timestamp() uint32 {
	return cb.stamp
}

// Clear is part of interface Clipboard. Only the current owner may clear
// the clipboard; a nil owner clears unconditionally.
func (cb *LocalClipboard) Clear(owner any) {
	if owner != nil && owner != cb.owner {
		return
	}
	cb.targets, cb.provide, cb.owner = nil, nil, nil
}

// RequestContents is part of interface Clipboard.
func (cb *LocalClipboard) RequestContents(target Atom, receive func(p *Payload)) {
	p := NewPayload(cb.selection, target)
	switch {
	case cb.targets == nil:
	case target == Targets:
		p.SetTargets(append(cb.targets.Atoms(), Targets, Timestamp))
	case target == Timestamp:
		data := []byte{byte(cb.stamp), byte(cb.stamp >> 8), byte(cb.stamp >> 16), byte(cb.stamp >> 24)}
		p.Set(Intern("INTEGER"), 32, data)
	default:
		if info, ok := cb.targets.Find(target); ok {
			cb.provide(p, info)
		}
	}
	if receive != nil {
		receive(p)
	}
}

// WaitForText requests text from a clipboard, trying UTF-8 first. It
// only sees results delivered before RequestContents returns, as with
// LocalClipboard.
func WaitForText(cb Clipboard) (string, bool) {
	var text string
	var ok bool
	for _, target := range []Atom{TypeUTF8String, TypeTextPlainUTF8, TypeCompoundText, TypeString} {
		cb.RequestContents(target, func(p *Payload) {
			if p == nil || p.Data == nil {
				return
			}
			if t, err := p.Text(); err == nil {
				text, ok = t, true
			}
		})
		if ok {
			break
		}
	}
	return text, ok
}
