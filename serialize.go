package textbuffer

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/npillmayer/textbuffer/pixbuf"
	"github.com/npillmayer/textbuffer/styled"
)

// Native rich text consists of a magic header, the length of an XML
// document as a big-endian uint32, the XML document and the images of the
// serialized range, each as a length-prefixed PNG.
//
//	<richtext tagset="…">
//	  <tags>
//	    <tag name="bold" priority="3"><attr name="weight" value="700"/></tag>
//	    <tag id="1" priority="4">…</tag>
//	  </tags>
//	  <text><on name="bold"/><t>some text</t><pixbuf index="0"/><off name="bold"/></text>
//	</richtext>
//
// Anonymous tags are referenced by id, named tags by name.

const richTextMagic = "TEXTBUFFERCONTENTS-0001"

type tagKey struct {
	name string
	id   int
}

func (k tagKey) attrs() []xml.Attr {
	if k.name != "" {
		return []xml.Attr{{Name: xml.Name{Local: "name"}, Value: k.name}}
	}
	return []xml.Attr{{Name: xml.Name{Local: "id"}, Value: strconv.Itoa(k.id)}}
}

type eventKind uint8

const (
	evText eventKind = iota
	evOn
	evOff
	evPixbuf
	evChild
)

type richEvent struct {
	kind   eventKind
	text   string
	tag    tagKey
	pixbuf int
}

type richTag struct {
	key      tagKey
	priority int
	props    []styled.PropertyValue
}

type richDoc struct {
	tagset  string
	tags    []richTag
	events  []richEvent
	pixbufs []*pixbuf.Pixbuf
}

// --- Serialization ---------------------------------------------------------

func serializeRichText(tagset string) SerializeFunc {
	return func(register, content *Buffer, start, end Iter) ([]byte, error) {
		doc := content.richDocument(start, end)
		doc.tagset = tagset
		return doc.encode()
	}
}

// richDocument collects the content of a range. Tags covering the start of
// the range are opened first, tags still open at the end are closed.
func (b *Buffer) richDocument(start, end Iter) *richDoc {
	doc := &richDoc{}
	keys := make(map[*styled.Tag]tagKey)
	anon := 0
	keyOf := func(tag *styled.Tag) tagKey {
		if k, ok := keys[tag]; ok {
			return k
		}
		k := tagKey{name: tag.Name()}
		if tag.IsAnonymous() {
			anon++
			k.id = anon
		}
		keys[tag] = k
		doc.tags = append(doc.tags, richTag{key: k, priority: tag.Priority(), props: tag.Properties()})
		return k
	}
	open := make(map[*styled.Tag]bool)
	for _, tag := range b.tree.tagsAt(start.line, start.lineChar) {
		open[tag] = true
		doc.events = append(doc.events, richEvent{kind: evOn, tag: keyOf(tag)})
	}
	b.tree.walk(start.line, start.lineChar, end.line, end.lineChar,
		func(l *Line, s *segment, from, to int) bool {
			switch s.kind {
			case segText:
				str := s.text.String()
				text := str[s.text.ByteOffset(from):s.text.ByteOffset(to)]
				if n := len(doc.events); n > 0 && doc.events[n-1].kind == evText {
					doc.events[n-1].text += text
				} else {
					doc.events = append(doc.events, richEvent{kind: evText, text: text})
				}
			case segPixbuf:
				doc.events = append(doc.events, richEvent{kind: evPixbuf, pixbuf: len(doc.pixbufs)})
				doc.pixbufs = append(doc.pixbufs, s.pixbuf)
			case segChild:
				doc.events = append(doc.events, richEvent{kind: evChild})
			case segToggleOn:
				open[s.tag] = true
				doc.events = append(doc.events, richEvent{kind: evOn, tag: keyOf(s.tag)})
			case segToggleOff:
				if open[s.tag] {
					delete(open, s.tag)
					doc.events = append(doc.events, richEvent{kind: evOff, tag: keyOf(s.tag)})
				}
			}
			return true
		})
	var still []*styled.Tag
	for tag := range open {
		still = append(still, tag)
	}
	styled.SortByPriority(still)
	for i := len(still) - 1; i >= 0; i-- {
		doc.events = append(doc.events, richEvent{kind: evOff, tag: keyOf(still[i])})
	}
	return doc
}

func (doc *richDoc) encode() ([]byte, error) {
	var x bytes.Buffer
	enc := xml.NewEncoder(&x)
	start := func(name string, attrs ...xml.Attr) {
		enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
	}
	end := func(name string) {
		enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
	}
	attr := func(name, value string) xml.Attr {
		return xml.Attr{Name: xml.Name{Local: name}, Value: value}
	}
	start("richtext", attr("tagset", doc.tagset))
	start("tags")
	for _, t := range doc.tags {
		start("tag", append(t.key.attrs(), attr("priority", strconv.Itoa(t.priority)))...)
		for _, p := range t.props {
			start("attr", attr("name", p.Name), attr("value", p.Value))
			end("attr")
		}
		end("tag")
	}
	end("tags")
	start("text")
	for _, ev := range doc.events {
		switch ev.kind {
		case evText:
			start("t")
			enc.EncodeToken(xml.CharData(ev.text))
			end("t")
		case evOn:
			start("on", ev.tag.attrs()...)
			end("on")
		case evOff:
			start("off", ev.tag.attrs()...)
			end("off")
		case evPixbuf:
			start("pixbuf", attr("index", strconv.Itoa(ev.pixbuf)))
			end("pixbuf")
		case evChild:
			start("child")
			end("child")
		}
	}
	end("text")
	end("richtext")
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	out.WriteString(richTextMagic)
	binary.Write(&out, binary.BigEndian, uint32(x.Len()))
	out.Write(x.Bytes())
	for _, pb := range doc.pixbufs {
		data, err := pixbuf.EncodeBytes(pb, "png")
		if err != nil {
			return nil, err
		}
		binary.Write(&out, binary.BigEndian, uint32(len(data)))
		out.Write(data)
	}
	return out.Bytes(), nil
}

// --- Deserialization -------------------------------------------------------

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptRichText, fmt.Sprintf(format, args...))
}

func parseRichText(data []byte) (*richDoc, error) {
	if !bytes.HasPrefix(data, []byte(richTextMagic)) {
		return nil, corrupt("missing header")
	}
	data = data[len(richTextMagic):]
	if len(data) < 4 {
		return nil, corrupt("truncated header")
	}
	n := binary.BigEndian.Uint32(data)
	data = data[4:]
	if uint64(n) > uint64(len(data)) {
		return nil, corrupt("truncated document")
	}
	doc, err := parseRichDocument(data[:n])
	if err != nil {
		return nil, err
	}
	data = data[n:]
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, corrupt("truncated image")
		}
		size := binary.BigEndian.Uint32(data)
		data = data[4:]
		if uint64(size) > uint64(len(data)) {
			return nil, corrupt("truncated image")
		}
		pb, err := pixbuf.Decode(data[:size])
		if err != nil {
			return nil, err
		}
		doc.pixbufs = append(doc.pixbufs, pb)
		data = data[size:]
	}
	for _, ev := range doc.events {
		if ev.kind == evPixbuf && (ev.pixbuf < 0 || ev.pixbuf >= len(doc.pixbufs)) {
			return nil, corrupt("image %d missing", ev.pixbuf)
		}
	}
	return doc, nil
}

func attrValue(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func parseKey(se xml.StartElement) (tagKey, error) {
	if name, ok := attrValue(se, "name"); ok && name != "" {
		return tagKey{name: name}, nil
	}
	id, ok := attrValue(se, "id")
	if !ok {
		return tagKey{}, corrupt("<%s> without tag reference", se.Name.Local)
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return tagKey{}, corrupt("tag id %q", id)
	}
	return tagKey{id: n}, nil
}

func parseRichDocument(data []byte) (*richDoc, error) {
	doc := &richDoc{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var current *richTag
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, corrupt("%v", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "richtext":
			doc.tagset, _ = attrValue(se, "tagset")
		case "tags", "text":
		case "tag":
			key, err := parseKey(se)
			if err != nil {
				return nil, err
			}
			prio, _ := attrValue(se, "priority")
			p, err := strconv.Atoi(prio)
			if err != nil {
				return nil, corrupt("tag priority %q", prio)
			}
			doc.tags = append(doc.tags, richTag{key: key, priority: p})
			current = &doc.tags[len(doc.tags)-1]
		case "attr":
			if current == nil {
				return nil, corrupt("<attr> outside of <tag>")
			}
			name, _ := attrValue(se, "name")
			value, _ := attrValue(se, "value")
			current.props = append(current.props, styled.PropertyValue{Name: name, Value: value})
		case "t":
			var text string
			if err := dec.DecodeElement(&text, &se); err != nil {
				return nil, corrupt("%v", err)
			}
			doc.events = append(doc.events, richEvent{kind: evText, text: text})
		case "on", "off":
			key, err := parseKey(se)
			if err != nil {
				return nil, err
			}
			kind := evOn
			if se.Name.Local == "off" {
				kind = evOff
			}
			doc.events = append(doc.events, richEvent{kind: kind, tag: key})
		case "pixbuf":
			idx, _ := attrValue(se, "index")
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, corrupt("image index %q", idx)
			}
			doc.events = append(doc.events, richEvent{kind: evPixbuf, pixbuf: n})
		case "child":
			doc.events = append(doc.events, richEvent{kind: evChild})
		default:
			return nil, corrupt("unexpected element <%s>", se.Name.Local)
		}
	}
	return doc, nil
}

// resolveTags maps the tags of a document onto the tags of a buffer's
// table. Missing tags are created only if createTags is set; nothing is
// modified before all tags are known to be resolvable.
func (b *Buffer) resolveTags(doc *richDoc, createTags bool) (map[tagKey]*styled.Tag, error) {
	declared := make(map[tagKey]bool, len(doc.tags))
	for _, t := range doc.tags {
		declared[t.key] = true
	}
	for _, ev := range doc.events {
		if (ev.kind == evOn || ev.kind == evOff) && !declared[ev.tag] {
			return nil, corrupt("reference to undeclared tag")
		}
	}
	tags := make(map[tagKey]*styled.Tag, len(doc.tags))
	var missing []richTag
	for _, t := range doc.tags {
		if t.key.name != "" {
			if tag, ok := b.table.Lookup(t.key.name); ok {
				tags[t.key] = tag
				continue
			}
		}
		if !createTags {
			if t.key.name == "" {
				return nil, fmt.Errorf("%w: anonymous tag %d", ErrUnknownTag, t.key.id)
			}
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, t.key.name)
		}
		missing = append(missing, t)
	}
	sort.SliceStable(missing, func(i, j int) bool { return missing[i].priority < missing[j].priority })
	for _, t := range missing {
		tag := styled.NewTag(t.key.name)
		for _, p := range t.props {
			if err := tag.SetProperty(p.Name, p.Value); err != nil {
				T().Infof("rich text: tag %s: %v", tag, err)
			}
		}
		if err := b.table.Add(tag); err != nil {
			return nil, err
		}
		tags[t.key] = tag
	}
	return tags, nil
}

func deserializeRichText(tagset string) DeserializeFunc {
	return func(register, content *Buffer, it *Iter, data []byte, createTags bool) error {
		doc, err := parseRichText(data)
		if err != nil {
			return err
		}
		if tagset != "" && doc.tagset != tagset {
			return fmt.Errorf("%w: expected %q, got %q", ErrTagsetMismatch, tagset, doc.tagset)
		}
		tags, err := content.resolveTags(doc, createTags)
		if err != nil {
			return err
		}
		return content.insertRichDocument(it, doc, tags)
	}
}

type tagRange struct {
	tag        *styled.Tag
	start, end int
}

// insertRichDocument inserts the content of a document at it. Tags of the
// surrounding text do not spill over into the inserted content.
func (b *Buffer) insertRichDocument(it *Iter, doc *richDoc, tags map[tagKey]*styled.Tag) error {
	var context []*styled.Tag
	for _, tag := range it.Tags() {
		if !it.StartsTag(tag) {
			context = append(context, tag)
		}
	}
	startOffset := it.Offset()
	offset := startOffset
	opened := make(map[*styled.Tag]int)
	var ranges []tagRange
	b.BeginUserAction()
	defer b.EndUserAction()
	for _, ev := range doc.events {
		var err error
		switch ev.kind {
		case evText:
			err = b.Insert(it, ev.text)
		case evPixbuf:
			err = b.InsertPixbuf(it, doc.pixbufs[ev.pixbuf])
		case evChild:
			err = b.InsertChildAnchor(it, NewChildAnchor())
		case evOn:
			if _, ok := opened[tags[ev.tag]]; !ok {
				opened[tags[ev.tag]] = offset
			}
			continue
		case evOff:
			tag := tags[ev.tag]
			if from, ok := opened[tag]; ok {
				ranges = append(ranges, tagRange{tag, from, offset})
				delete(opened, tag)
			}
			continue
		}
		if err != nil {
			return err
		}
		offset = it.Offset()
	}
	for tag, from := range opened {
		ranges = append(ranges, tagRange{tag, from, offset})
	}
	if offset > startOffset {
		s, e := b.IterAtOffset(startOffset), b.IterAtOffset(offset)
		for _, tag := range context {
			b.RemoveTag(tag, s, e)
		}
	}
	for _, r := range ranges {
		b.ApplyTag(r.tag, b.IterAtOffset(r.start), b.IterAtOffset(r.end))
	}
	*it = b.IterAtOffset(offset)
	return nil
}
