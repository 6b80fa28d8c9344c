package styled

import (
	"sort"

	"golang.org/x/text/language"
)

// Property identifies a single settable attribute of a tag.
type Property uint8

// Tag properties. Every setter of Tag sets the corresponding property.
const (
	PropForeground Property = iota
	PropBackground
	PropParagraphBackground
	PropBackgroundFullHeight
	PropFamily
	PropStyle
	PropVariant
	PropWeight
	PropStretch
	PropSize
	PropScale
	PropJustification
	PropDirection
	PropLeftMargin
	PropRightMargin
	PropIndent
	PropRise
	PropStrikethrough
	PropStrikethroughColor
	PropUnderline
	PropUnderlineColor
	PropPixelsAboveLines
	PropPixelsBelowLines
	PropPixelsInsideWrap
	PropLetterSpacing
	PropTabs
	PropWrapMode
	PropLanguage
	PropInvisible
	PropEditable
	numProperties
)

// AffectsSize is true for properties which may change the size of text on
// display. Changes to other properties need only a redraw.
func (p Property) AffectsSize() bool {
	switch p {
	case PropForeground, PropBackground, PropParagraphBackground,
		PropBackgroundFullHeight, PropStrikethrough, PropStrikethroughColor,
		PropUnderline, PropUnderlineColor, PropEditable:
		return false
	}
	return true
}

// Style is something which may be applied to a run of text and compared to
// other styles.
type Style interface {
	Equals(other Style) bool // does this Style look equal or differently than another one ?
	String() string          // return some kind of identifying string
}

// Tag is a bundle of attribute values which may be applied to ranges of text.
// Tags with an empty name are anonymous; any number of anonymous tags may
// live in a table.
type Tag struct {
	name     string
	priority int
	table    *TagTable
	values   Attributes
	set      uint64 // bitset of Property
}

var _ Style = (*Tag)(nil)

// NewTag creates a tag which does not yet belong to a table.
func NewTag(name string) *Tag {
	return &Tag{name: name}
}

// Name returns the name of the tag, or "" for anonymous tags.
func (t *Tag) Name() string {
	return t.name
}

// IsAnonymous is true for tags without a name.
func (t *Tag) IsAnonymous() bool {
	return t.name == ""
}

// Priority returns the tag's priority within its table.
func (t *Tag) Priority() int {
	return t.priority
}

// SetPriority moves the tag to priority p, shifting other tags of the table.
// p is clamped to [0, table.Size()-1].
func (t *Tag) SetPriority(p int) {
	if t.table == nil {
		tracer().Errorf("cannot set priority of tag %q: tag is not in a table", t.name)
		return
	}
	t.table.setPriority(t, p)
}

// Table returns the tag table the tag is a member of, or nil.
func (t *Tag) Table() *TagTable {
	return t.table
}

// Equals is part of interface Style. Tags are equal only to themselves.
func (t *Tag) Equals(other Style) bool {
	o, ok := other.(*Tag)
	return ok && o == t
}

func (t *Tag) String() string {
	if t == nil {
		return "<nil tag>"
	}
	if t.name == "" {
		return "<anonymous tag>"
	}
	return t.name
}

// IsSet is true if the property p has explicitly been set on the tag.
func (t *Tag) IsSet(p Property) bool {
	return t.set&(1<<p) != 0
}

// Unset clears property p; the tag no longer influences the attribute.
func (t *Tag) Unset(p Property) {
	if !t.IsSet(p) {
		return
	}
	t.set &^= 1 << p
	t.changed(p)
}

// Values returns a copy of the raw attribute values of the tag. Only fields
// for which IsSet is true are meaningful.
func (t *Tag) Values() Attributes {
	return *t.values.Clone()
}

func (t *Tag) mark(p Property) {
	t.set |= 1 << p
	t.changed(p)
}

func (t *Tag) changed(p Property) {
	if t.table != nil {
		t.table.notifyChanged(t, p.AffectsSize())
	}
}

// --- Setters ---------------------------------------------------------------

// SetForeground sets the text color.
func (t *Tag) SetForeground(c Color) *Tag {
	t.values.Foreground = c
	t.mark(PropForeground)
	return t
}

// SetBackground sets the background color of characters.
func (t *Tag) SetBackground(c Color) *Tag {
	t.values.Background = c
	t.mark(PropBackground)
	return t
}

// SetParagraphBackground sets the background color of whole paragraphs.
func (t *Tag) SetParagraphBackground(c Color) *Tag {
	t.values.ParagraphBackground = c
	t.mark(PropParagraphBackground)
	return t
}

// SetBackgroundFullHeight lets the background fill the entire line height.
func (t *Tag) SetBackgroundFullHeight(b bool) *Tag {
	t.values.BgFullHeight = b
	t.mark(PropBackgroundFullHeight)
	return t
}

// SetFamily sets the font family.
func (t *Tag) SetFamily(family string) *Tag {
	t.values.Font.Family = family
	t.mark(PropFamily)
	return t
}

// SetStyle sets the font slant.
func (t *Tag) SetStyle(s FontStyle) *Tag {
	t.values.Font.Style = s
	t.mark(PropStyle)
	return t
}

// SetVariant sets the font variant.
func (t *Tag) SetVariant(v FontVariant) *Tag {
	t.values.Font.Variant = v
	t.mark(PropVariant)
	return t
}

// SetWeight sets the font weight, e.g. WeightBold.
func (t *Tag) SetWeight(w int) *Tag {
	t.values.Font.Weight = w
	t.mark(PropWeight)
	return t
}

// SetStretch sets the font stretch.
func (t *Tag) SetStretch(s FontStretch) *Tag {
	t.values.Font.Stretch = s
	t.mark(PropStretch)
	return t
}

// SetSize sets the font size in points.
func (t *Tag) SetSize(pt float64) *Tag {
	t.values.Font.Size = pt
	t.mark(PropSize)
	return t
}

// SetScale sets a font scaling factor, relative to the font size.
func (t *Tag) SetScale(f float64) *Tag {
	t.values.FontScale = f
	t.mark(PropScale)
	return t
}

// SetJustification sets paragraph justification.
func (t *Tag) SetJustification(j Justification) *Tag {
	t.values.Justification = j
	t.mark(PropJustification)
	return t
}

// SetDirection sets the text direction.
func (t *Tag) SetDirection(d Direction) *Tag {
	t.values.Direction = d
	t.mark(PropDirection)
	return t
}

// SetLeftMargin sets the left margin in pixels.
func (t *Tag) SetLeftMargin(px int) *Tag {
	t.values.LeftMargin = px
	t.mark(PropLeftMargin)
	return t
}

// SetRightMargin sets the right margin in pixels.
func (t *Tag) SetRightMargin(px int) *Tag {
	t.values.RightMargin = px
	t.mark(PropRightMargin)
	return t
}

// SetIndent sets the paragraph indent in pixels; may be negative.
func (t *Tag) SetIndent(px int) *Tag {
	t.values.Indent = px
	t.mark(PropIndent)
	return t
}

// SetRise sets the offset of text above the baseline.
func (t *Tag) SetRise(px int) *Tag {
	t.values.Rise = px
	t.mark(PropRise)
	return t
}

// SetStrikethrough switches strike-through on or off.
func (t *Tag) SetStrikethrough(b bool) *Tag {
	t.values.Strikethrough = b
	t.mark(PropStrikethrough)
	return t
}

// SetStrikethroughColor sets the color of the strike-through line.
func (t *Tag) SetStrikethroughColor(c Color) *Tag {
	t.values.StrikethroughColor = c
	t.mark(PropStrikethroughColor)
	return t
}

// SetUnderline sets the kind of underline.
func (t *Tag) SetUnderline(u Underline) *Tag {
	t.values.Underline = u
	t.mark(PropUnderline)
	return t
}

// SetUnderlineColor sets the color of the underline.
func (t *Tag) SetUnderlineColor(c Color) *Tag {
	t.values.UnderlineColor = c
	t.mark(PropUnderlineColor)
	return t
}

// SetPixelsAboveLines sets the space above paragraphs.
func (t *Tag) SetPixelsAboveLines(px int) *Tag {
	t.values.PixelsAboveLines = px
	t.mark(PropPixelsAboveLines)
	return t
}

// SetPixelsBelowLines sets the space below paragraphs.
func (t *Tag) SetPixelsBelowLines(px int) *Tag {
	t.values.PixelsBelowLines = px
	t.mark(PropPixelsBelowLines)
	return t
}

// SetPixelsInsideWrap sets the space between wrapped lines of a paragraph.
func (t *Tag) SetPixelsInsideWrap(px int) *Tag {
	t.values.PixelsInsideWrap = px
	t.mark(PropPixelsInsideWrap)
	return t
}

// SetLetterSpacing sets extra space between characters.
func (t *Tag) SetLetterSpacing(px int) *Tag {
	t.values.LetterSpacing = px
	t.mark(PropLetterSpacing)
	return t
}

// SetTabs sets custom tab stops. The slice is copied.
func (t *Tag) SetTabs(tabs []TabStop) *Tag {
	t.values.Tabs = append([]TabStop(nil), tabs...)
	t.mark(PropTabs)
	return t
}

// SetWrapMode sets the line wrapping mode.
func (t *Tag) SetWrapMode(w WrapMode) *Tag {
	t.values.WrapMode = w
	t.mark(PropWrapMode)
	return t
}

// SetLanguage sets the language of the text.
func (t *Tag) SetLanguage(lang language.Tag) *Tag {
	t.values.Language = lang
	t.mark(PropLanguage)
	return t
}

// SetInvisible hides text.
func (t *Tag) SetInvisible(b bool) *Tag {
	t.values.Invisible = b
	t.mark(PropInvisible)
	return t
}

// SetEditable controls whether the user may edit text.
func (t *Tag) SetEditable(b bool) *Tag {
	t.values.Editable = b
	t.mark(PropEditable)
	return t
}

// SortByPriority sorts tags in ascending order of priority.
func SortByPriority(tags []*Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].priority < tags[j].priority
	})
}
