package styled

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Color is a 16-bit-per-channel RGBA color (non-premultiplied).
// Color implements image/color.Color.
type Color struct {
	R, G, B, A uint16
}

// Black and Transparent are the default colors for text and background.
var (
	Black       = Color{0, 0, 0, 0xffff}
	White       = Color{0xffff, 0xffff, 0xffff, 0xffff}
	Transparent = Color{}
)

// RGBA returns alpha-premultiplied color values, as required by image/color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	r = uint32(c.R) * a / 0xffff
	g = uint32(c.G) * a / 0xffff
	b = uint32(c.B) * a / 0xffff
	return
}

// IsTransparent is true for colors with zero alpha.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

func (c Color) String() string {
	return fmt.Sprintf("#%04x%04x%04x%04x", c.R, c.G, c.B, c.A)
}

var colorNames = map[string]Color{
	"black":   Black,
	"white":   White,
	"red":     {0xffff, 0, 0, 0xffff},
	"green":   {0, 0x8080, 0, 0xffff},
	"blue":    {0, 0, 0xffff, 0xffff},
	"yellow":  {0xffff, 0xffff, 0, 0xffff},
	"cyan":    {0, 0xffff, 0xffff, 0xffff},
	"magenta": {0xffff, 0, 0xffff, 0xffff},
	"gray":    {0x8080, 0x8080, 0x8080, 0xffff},
	"grey":    {0x8080, 0x8080, 0x8080, 0xffff},
	"orange":  {0xffff, 0xa5a5, 0, 0xffff},
}

// ParseColor reads a color specification. Accepted are a few color names and
// hex forms "#rgb", "#rrggbb", "#rrggbbaa", "#rrrrggggbbbb" and
// "#rrrrggggbbbbaaaa".
func ParseColor(spec string) (Color, error) {
	spec = strings.TrimSpace(strings.ToLower(spec))
	if c, ok := colorNames[spec]; ok {
		return c, nil
	}
	if spec == "transparent" {
		return Transparent, nil
	}
	if !strings.HasPrefix(spec, "#") {
		return Color{}, fmt.Errorf("%w: color %q", ErrIllegalValue, spec)
	}
	hex := spec[1:]
	var digits int
	var alpha bool
	switch len(hex) {
	case 3:
		digits = 1
	case 6:
		digits = 2
	case 8:
		digits, alpha = 2, true
	case 12:
		digits = 4
	case 16:
		digits, alpha = 4, true
	default:
		return Color{}, fmt.Errorf("%w: color %q", ErrIllegalValue, spec)
	}
	channel := func(i int) (uint16, error) {
		v, err := strconv.ParseUint(hex[i*digits:(i+1)*digits], 16, 16)
		if err != nil {
			return 0, fmt.Errorf("%w: color %q", ErrIllegalValue, spec)
		}
		switch digits {
		case 1:
			return uint16(v * 0x1111), nil
		case 2:
			return uint16(v * 0x101), nil
		}
		return uint16(v), nil
	}
	c := Color{A: 0xffff}
	var err error
	if c.R, err = channel(0); err != nil {
		return Color{}, err
	}
	if c.G, err = channel(1); err != nil {
		return Color{}, err
	}
	if c.B, err = channel(2); err != nil {
		return Color{}, err
	}
	if alpha {
		if c.A, err = channel(3); err != nil {
			return Color{}, err
		}
	}
	return c, nil
}

// --- Enumerations ----------------------------------------------------------

// FontStyle is the slant of a font.
type FontStyle uint8

// Font slants
const (
	StyleNormal FontStyle = iota
	StyleOblique
	StyleItalic
)

// FontVariant selects small caps.
type FontVariant uint8

// Font variants
const (
	VariantNormal FontVariant = iota
	VariantSmallCaps
)

// FontStretch is the width of a font.
type FontStretch uint8

// Font stretches
const (
	StretchUltraCondensed FontStretch = iota
	StretchExtraCondensed
	StretchCondensed
	StretchSemiCondensed
	StretchNormal
	StretchSemiExpanded
	StretchExpanded
	StretchExtraExpanded
	StretchUltraExpanded
)

// Some well-known font weights.
const (
	WeightThin   = 100
	WeightLight  = 300
	WeightNormal = 400
	WeightMedium = 500
	WeightBold   = 700
	WeightHeavy  = 900
)

// Underline is the kind of underline drawn below text.
type Underline uint8

// Underline kinds
const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineLow
	UnderlineError
)

// Justification aligns the lines of a paragraph.
type Justification uint8

// Justifications
const (
	JustifyLeft Justification = iota
	JustifyRight
	JustifyCenter
	JustifyFill
)

// Direction is a text direction.
type Direction uint8

// Text directions. DirNone lets the text content decide.
const (
	DirNone Direction = iota
	DirLTR
	DirRTL
)

// WrapMode determines how long lines are broken.
type WrapMode uint8

// Wrap modes
const (
	WrapNone WrapMode = iota
	WrapChar
	WrapWord
	WrapWordChar
)

// TabAlign is the alignment of text at a tab stop.
type TabAlign uint8

// Only left-aligned tab stops are in use today.
const (
	TabLeft TabAlign = iota
)

// TabStop is a tab position in pixels.
type TabStop struct {
	Position int
	Align    TabAlign
}

// FontDescription describes the font of a run of text.
type FontDescription struct {
	Family  string
	Style   FontStyle
	Variant FontVariant
	Weight  int
	Stretch FontStretch
	Size    float64 // in points
}

func (fd FontDescription) String() string {
	return fmt.Sprintf("%s %s %d %.1fpt", fd.Family, enumName(styleNames, int(fd.Style)),
		fd.Weight, fd.Size)
}

// --- Attribute sets --------------------------------------------------------

// Attributes is the set of effective display attributes for a position in a
// buffer. It is a value type; Tabs are shared between copies and treated as
// immutable, Clone creates an independent copy.
type Attributes struct {
	Foreground          Color
	Background          Color
	ParagraphBackground Color
	BgFullHeight        bool
	Underline           Underline
	UnderlineColor      Color
	UnderlineColorSet   bool
	Strikethrough       bool
	StrikethroughColor  Color
	StrikethroughColSet bool
	Rise                int
	Font                FontDescription
	FontScale           float64
	Justification       Justification
	Direction           Direction
	LeftMargin          int
	RightMargin         int
	Indent              int
	PixelsAboveLines    int
	PixelsBelowLines    int
	PixelsInsideWrap    int
	LetterSpacing       int
	Tabs                []TabStop
	WrapMode            WrapMode
	Language            language.Tag
	Invisible           bool
	Editable            bool
}

// DefaultAttributes returns the attribute set in effect where no tag applies.
func DefaultAttributes() *Attributes {
	return &Attributes{
		Foreground: Black,
		Background: Transparent,
		Font: FontDescription{
			Family:  "Sans",
			Weight:  WeightNormal,
			Size:    10,
			Stretch: StretchNormal,
		},
		FontScale: 1.0,
		Language:  language.Und,
		Editable:  true,
	}
}

// Clone returns a deep copy of an attribute set.
func (a *Attributes) Clone() *Attributes {
	c := *a
	if a.Tabs != nil {
		c.Tabs = append([]TabStop(nil), a.Tabs...)
	}
	return &c
}

// Apply merges the values set by tags into the attribute set. Tags are
// applied in ascending priority, independent of their order in the argument.
// The argument slice is not modified.
func (a *Attributes) Apply(tags []*Tag) {
	sorted := append([]*Tag(nil), tags...)
	SortByPriority(sorted)
	for _, tag := range sorted {
		a.merge(tag)
	}
}

// merge copies every property set on tag.
func (a *Attributes) merge(tag *Tag) {
	v := &tag.values
	for p := Property(0); p < numProperties; p++ {
		if !tag.IsSet(p) {
			continue
		}
		switch p {
		case PropForeground:
			a.Foreground = v.Foreground
		case PropBackground:
			a.Background = v.Background
		case PropParagraphBackground:
			a.ParagraphBackground = v.ParagraphBackground
		case PropBackgroundFullHeight:
			a.BgFullHeight = v.BgFullHeight
		case PropFamily:
			a.Font.Family = v.Font.Family
		case PropStyle:
			a.Font.Style = v.Font.Style
		case PropVariant:
			a.Font.Variant = v.Font.Variant
		case PropWeight:
			a.Font.Weight = v.Font.Weight
		case PropStretch:
			a.Font.Stretch = v.Font.Stretch
		case PropSize:
			a.Font.Size = v.Font.Size
		case PropScale:
			a.FontScale *= v.FontScale
		case PropJustification:
			a.Justification = v.Justification
		case PropDirection:
			a.Direction = v.Direction
		case PropLeftMargin:
			a.LeftMargin = v.LeftMargin
		case PropRightMargin:
			a.RightMargin = v.RightMargin
		case PropIndent:
			a.Indent = v.Indent
		case PropRise:
			a.Rise = v.Rise
		case PropStrikethrough:
			a.Strikethrough = v.Strikethrough
		case PropStrikethroughColor:
			a.StrikethroughColor = v.StrikethroughColor
			a.StrikethroughColSet = true
		case PropUnderline:
			a.Underline = v.Underline
		case PropUnderlineColor:
			a.UnderlineColor = v.UnderlineColor
			a.UnderlineColorSet = true
		case PropPixelsAboveLines:
			a.PixelsAboveLines = v.PixelsAboveLines
		case PropPixelsBelowLines:
			a.PixelsBelowLines = v.PixelsBelowLines
		case PropPixelsInsideWrap:
			a.PixelsInsideWrap = v.PixelsInsideWrap
		case PropLetterSpacing:
			a.LetterSpacing = v.LetterSpacing
		case PropTabs:
			a.Tabs = v.Tabs
		case PropWrapMode:
			a.WrapMode = v.WrapMode
		case PropLanguage:
			a.Language = v.Language
		case PropInvisible:
			a.Invisible = v.Invisible
		case PropEditable:
			a.Editable = v.Editable
		}
	}
}
