package selection

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/textbuffer/pixbuf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Payload is the content of a selection as it is handed to or received
// from a transport.
type Payload struct {
	Selection Atom   // e.g. Primary or ClipboardAtom
	Target    Atom   // the target which has been requested
	Type      Atom   // the type of Data
	Format    int    // bits per unit of Data: 8, 16 or 32
	Data      []byte // nil if no data has been set
	Display   any    // opaque reference to the display of the transport
}

// NewPayload creates an empty payload for a request.
func NewPayload(selection, target Atom) *Payload {
	return &Payload{Selection: selection, Target: target}
}

// Length returns the length of the data in bytes, or -1 if no data has
// been set.
func (p *Payload) Length() int {
	if p.Data == nil {
		return -1
	}
	return len(p.Data)
}

// Set stores raw data. format is 8, 16 or 32; the data is copied.
func (p *Payload) Set(typ Atom, format int, data []byte) {
	p.Type = typ
	p.Format = format
	p.Data = append(make([]byte, 0, len(data)), data...)
}

// Copy creates an independent copy of the payload.
func (p *Payload) Copy() *Payload {
	c := *p
	if p.Data != nil {
		c.Data = append([]byte(nil), p.Data...)
	}
	return &c
}

// --- Text ------------------------------------------------------------------

// SetText stores text, encoded as required by the payload's target. Text
// targets for legacy character sets get a best-effort conversion, plain
// text targets get CR-LF line endings.
func (p *Payload) SetText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: invalid UTF-8", ErrCharset)
	}
	switch p.Target {
	case TypeUTF8String:
		p.Set(TypeUTF8String, 8, []byte(text))
	case TypeString, TypeText, TypeCompoundText:
		enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
		b, err := enc.Bytes([]byte(text))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCharset, err)
		}
		typ := p.Target
		if typ == TypeText {
			typ = TypeString
		}
		p.Set(typ, 8, b)
	case TypeTextPlain:
		p.Set(TypeTextPlain, 8, []byte(toASCII(toCRLF(text))))
	case TypeTextPlainUTF8:
		p.Set(TypeTextPlainUTF8, 8, []byte(toCRLF(text)))
	default:
		charset, ok := charsetOf(p.Target)
		if !ok {
			return fmt.Errorf("%w: target %s", ErrNotText, p.Target)
		}
		enc, err := charsetEncoding(charset)
		if err != nil {
			return err
		}
		b, err := enc.NewEncoder().Bytes([]byte(toCRLF(text)))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCharset, charset, err)
		}
		p.Set(p.Target, 8, b)
	}
	return nil
}

// Text reads text from the payload, decoding it according to its type.
// Line endings are normalized to LF.
func (p *Payload) Text() (string, error) {
	if p.Data == nil || p.Format != 8 {
		return "", ErrNotText
	}
	var text string
	switch p.Type {
	case TypeUTF8String, TypeTextPlainUTF8:
		if !utf8.Valid(p.Data) {
			return "", fmt.Errorf("%w: invalid UTF-8", ErrCharset)
		}
		text = string(p.Data)
	case TypeString, TypeText, TypeCompoundText:
		b, err := charmap.ISO8859_1.NewDecoder().Bytes(p.Data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCharset, err)
		}
		text = string(b)
	case TypeTextPlain:
		text = fromASCII(p.Data)
	default:
		charset, ok := charsetOf(p.Type)
		if !ok {
			return "", ErrNotText
		}
		enc, err := charsetEncoding(charset)
		if err != nil {
			return "", err
		}
		b, err := enc.NewDecoder().Bytes(p.Data)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrCharset, charset, err)
		}
		text = string(b)
	}
	return toLF(text), nil
}

func charsetEncoding(charset string) (encoding.Encoding, error) {
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unknown charset %q", ErrCharset, charset)
	}
	return enc, nil
}

func toCRLF(s string) string {
	s = toLF(s)
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func toLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// toASCII replaces every non-ASCII character by '?'.
func toASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= utf8.RuneSelf {
			r = '?'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fromASCII(data []byte) string {
	out := make([]byte, len(data))
	for i, c := range data {
		if c >= utf8.RuneSelf {
			c = '?'
		}
		out[i] = c
	}
	return string(out)
}

// --- Images ----------------------------------------------------------------

// SetPixbuf stores an image, encoded in the format the target asks for.
func (p *Payload) SetPixbuf(pb *pixbuf.Pixbuf) error {
	f, ok := pixbuf.FormatForMimeType(p.Target.Name())
	if !ok || !f.Writable() {
		return fmt.Errorf("%w: target %s", ErrNotImage, p.Target)
	}
	data, err := pixbuf.EncodeBytes(pb, f.Name())
	if err != nil {
		return err
	}
	p.Set(p.Target, 8, data)
	return nil
}

// Pixbuf decodes the image held by the payload.
func (p *Payload) Pixbuf() (*pixbuf.Pixbuf, error) {
	if p.Data == nil || p.Format != 8 {
		return nil, ErrNotImage
	}
	return pixbuf.Decode(p.Data)
}

// --- URIs ------------------------------------------------------------------

// SetURIs stores a list of URIs, one per CR-LF terminated line. The target
// must be the URI list target; URIs must be ASCII.
func (p *Payload) SetURIs(uris []string) error {
	if p.Target != TypeURIList {
		return fmt.Errorf("%w: target %s", ErrNotURIs, p.Target)
	}
	var b bytes.Buffer
	for _, u := range uris {
		for i := 0; i < len(u); i++ {
			if u[i] >= utf8.RuneSelf {
				return fmt.Errorf("%w: URI %q is not ASCII", ErrCharset, u)
			}
		}
		b.WriteString(u)
		b.WriteString("\r\n")
	}
	p.Set(TypeURIList, 8, b.Bytes())
	return nil
}

// URIs reads a URI list. Empty lines and comment lines starting with '#'
// are skipped.
func (p *Payload) URIs() ([]string, error) {
	if p.Data == nil || p.Type != TypeURIList {
		return nil, ErrNotURIs
	}
	var uris []string
	for _, line := range strings.Split(string(p.Data), "\r\n") {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		uris = append(uris, line)
	}
	return uris, nil
}

// --- Targets ---------------------------------------------------------------

// SetTargets stores a list of atoms, as an answer to a TARGETS request.
func (p *Payload) SetTargets(targets []Atom) {
	data := make([]byte, 4*len(targets))
	for i, a := range targets {
		binary.LittleEndian.PutUint32(data[4*i:], uint32(a))
	}
	p.Set(TypeAtom, 32, data)
}

// Targets reads a list of atoms.
func (p *Payload) Targets() ([]Atom, error) {
	if p.Data == nil || p.Type != TypeAtom || p.Format != 32 || len(p.Data)%4 != 0 {
		return nil, ErrNotTargets
	}
	targets := make([]Atom, len(p.Data)/4)
	for i := range targets {
		targets[i] = Atom(binary.LittleEndian.Uint32(p.Data[4*i:]))
	}
	return targets, nil
}

// TargetsIncludeText is true if the payload holds targets and any of them
// delivers text.
func (p *Payload) TargetsIncludeText() bool {
	targets, err := p.Targets()
	return err == nil && TargetsIncludeText(targets)
}
