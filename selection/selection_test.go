package selection

import (
	"errors"
	"image"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textbuffer/pixbuf"
)

func TestAtomsAreInterned(t *testing.T) {
	a := Intern("application/x-test")
	b := Intern("application/x-test")
	if a != b || a == AtomNone {
		t.Fatalf("expected interning to yield the same atom")
	}
	if a.Name() != "application/x-test" {
		t.Errorf("unexpected atom name %q", a.Name())
	}
	if _, ok := Lookup("never interned"); ok {
		t.Errorf("lookup must not create atoms")
	}
}

func TestTargetList(t *testing.T) {
	tl := NewTargetList()
	tl.AddTextTargets(1)
	tl.AddURITargets(2)
	n := tl.Len()
	tl.AddTextTargets(3) // no duplicates
	if tl.Len() != n {
		t.Errorf("expected no duplicate targets, have %d entries", tl.Len())
	}
	if info, ok := tl.Find(TypeURIList); !ok || info != 2 {
		t.Errorf("expected URI target with info 2")
	}
	tl.Remove(TypeURIList)
	if _, ok := tl.Find(TypeURIList); ok {
		t.Errorf("URI target should have been removed")
	}
	if !TargetsIncludeText(tl.Atoms()) || TargetsIncludeURI(tl.Atoms()) {
		t.Errorf("predicates are wrong")
	}
}

func TestImageTargetsStartWithPNG(t *testing.T) {
	tl := NewTargetList()
	tl.AddImageTargets(0, true)
	entries := tl.Entries()
	if len(entries) == 0 || entries[0].Target.Name() != "image/png" {
		t.Fatalf("expected image/png as first image target")
	}
	if _, ok := tl.Find(Intern("image/webp")); ok {
		t.Errorf("webp is not writable and must not be offered")
	}
	if !TargetsIncludeImage(tl.Atoms(), true) {
		t.Errorf("expected image targets")
	}
}

func TestTextRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	text := "Grüße\nan alle"
	for _, target := range []Atom{TypeUTF8String, TypeString, TypeTextPlainUTF8,
		Intern("text/plain;charset=ISO-8859-1")} {
		p := NewPayload(ClipboardAtom, target)
		if err := p.SetText(text); err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		back, err := p.Text()
		if err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		if back != text {
			t.Errorf("%s: expected %q, have %q", target, text, back)
		}
	}
}

func TestPlainTextIsASCIIWithCRLF(t *testing.T) {
	p := NewPayload(ClipboardAtom, TypeTextPlain)
	if err := p.SetText("a\nä"); err != nil {
		t.Fatal(err)
	}
	if string(p.Data) != "a\r\n?" {
		t.Errorf("unexpected plain text data %q", p.Data)
	}
	text, _ := p.Text()
	if text != "a\n?" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestLatin1ReplacesUnsupported(t *testing.T) {
	p := NewPayload(ClipboardAtom, TypeString)
	if err := p.SetText("a€b"); err != nil {
		t.Fatal(err)
	}
	if len(p.Data) != 3 || p.Data[0] != 'a' || p.Data[2] != 'b' {
		t.Errorf("expected 3 bytes with replacement, have %q", p.Data)
	}
}

func TestURIs(t *testing.T) {
	p := NewPayload(ClipboardAtom, TypeURIList)
	if err := p.SetURIs([]string{"file:///tmp/a", "http://example.com/"}); err != nil {
		t.Fatal(err)
	}
	p.Data = append([]byte("# comment\r\n"), p.Data...)
	uris, err := p.URIs()
	if err != nil {
		t.Fatal(err)
	}
	if len(uris) != 2 || uris[1] != "http://example.com/" {
		t.Errorf("unexpected URIs %v", uris)
	}
	if err := p.SetURIs([]string{"file:///tmp/ä"}); !errors.Is(err, ErrCharset) {
		t.Errorf("expected non-ASCII URI to be rejected")
	}
}

func TestPixbufPayload(t *testing.T) {
	pb := pixbuf.New(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	p := NewPayload(ClipboardAtom, Intern("image/png"))
	if err := p.SetPixbuf(pb); err != nil {
		t.Fatal(err)
	}
	back, err := p.Pixbuf()
	if err != nil {
		t.Fatal(err)
	}
	if back.Width() != 2 {
		t.Errorf("expected width 2")
	}
	if _, err := p.Text(); err == nil {
		t.Errorf("image payload must not decode as text")
	}
}

func TestLocalClipboard(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	cb := NewLocalClipboard(ClipboardAtom, nil)
	if _, ok := WaitForText(cb); ok {
		t.Fatalf("empty clipboard must not deliver text")
	}
	tl := NewTargetList()
	tl.AddTextTargets(7)
	owner := "me"
	cb.SetWithData(tl, func(p *Payload, info uint32) {
		if info != 7 {
			t.Errorf("expected info 7, have %d", info)
		}
		p.SetText("hello")
	}, owner)
	text, ok := WaitForText(cb)
	if !ok || text != "hello" {
		t.Fatalf("expected hello, have %q", text)
	}
	var targets []Atom
	cb.RequestContents(Targets, func(p *Payload) {
		targets, _ = p.Targets()
	})
	if !TargetsIncludeText(targets) {
		t.Errorf("expected text targets, have %v", targets)
	}
	cb.Clear("somebody else")
	if cb.Owner() != owner {
		t.Errorf("foreign clear must be ignored")
	}
	cb.Clear(owner)
	if cb.Owner() != nil {
		t.Errorf("expected clipboard to be cleared")
	}
}

func TestCounterIsMonotonic(t *testing.T) {
	var c Counter
	a, b := c.Now(), c.Now()
	if b <= a {
		t.Errorf("expected increasing timestamps")
	}
}
