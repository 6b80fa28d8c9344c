package styled

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

var propNames = [numProperties]string{
	PropForeground:           "foreground",
	PropBackground:           "background",
	PropParagraphBackground:  "paragraph-background",
	PropBackgroundFullHeight: "background-full-height",
	PropFamily:               "family",
	PropStyle:                "style",
	PropVariant:              "variant",
	PropWeight:               "weight",
	PropStretch:              "stretch",
	PropSize:                 "size",
	PropScale:                "scale",
	PropJustification:        "justification",
	PropDirection:            "direction",
	PropLeftMargin:           "left-margin",
	PropRightMargin:          "right-margin",
	PropIndent:               "indent",
	PropRise:                 "rise",
	PropStrikethrough:        "strikethrough",
	PropStrikethroughColor:   "strikethrough-rgba",
	PropUnderline:            "underline",
	PropUnderlineColor:       "underline-rgba",
	PropPixelsAboveLines:     "pixels-above-lines",
	PropPixelsBelowLines:     "pixels-below-lines",
	PropPixelsInsideWrap:     "pixels-inside-wrap",
	PropLetterSpacing:        "letter-spacing",
	PropTabs:                 "tabs",
	PropWrapMode:             "wrap-mode",
	PropLanguage:             "language",
	PropInvisible:            "invisible",
	PropEditable:             "editable",
}

func (p Property) String() string {
	if p < numProperties {
		return propNames[p]
	}
	return fmt.Sprintf("Property(%d)", p)
}

// PropertyByName finds a property from its name.
func PropertyByName(name string) (Property, bool) {
	for p, n := range propNames {
		if n == name {
			return Property(p), true
		}
	}
	return 0, false
}

var (
	styleNames         = []string{"normal", "oblique", "italic"}
	variantNames       = []string{"normal", "small-caps"}
	stretchNames       = []string{"ultra-condensed", "extra-condensed", "condensed", "semi-condensed", "normal", "semi-expanded", "expanded", "extra-expanded", "ultra-expanded"}
	underlineNames     = []string{"none", "single", "double", "low", "error"}
	justificationNames = []string{"left", "right", "center", "fill"}
	directionNames     = []string{"none", "ltr", "rtl"}
	wrapNames          = []string{"none", "char", "word", "word-char"}
)

func enumName(names []string, v int) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return strconv.Itoa(v)
}

func enumValue(names []string, s string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrIllegalValue, s)
}

// PropertyValue is a property of a tag in string form.
type PropertyValue struct {
	Name  string
	Value string
}

// Properties returns every property set on the tag, in string form.
// The result may be fed into SetProperty to reconstruct an equivalent tag.
func (t *Tag) Properties() []PropertyValue {
	var props []PropertyValue
	for p := Property(0); p < numProperties; p++ {
		if t.IsSet(p) {
			props = append(props, PropertyValue{Name: p.String(), Value: t.formatProperty(p)})
		}
	}
	return props
}

func (t *Tag) formatProperty(p Property) string {
	v := &t.values
	switch p {
	case PropForeground:
		return v.Foreground.String()
	case PropBackground:
		return v.Background.String()
	case PropParagraphBackground:
		return v.ParagraphBackground.String()
	case PropStrikethroughColor:
		return v.StrikethroughColor.String()
	case PropUnderlineColor:
		return v.UnderlineColor.String()
	case PropBackgroundFullHeight:
		return strconv.FormatBool(v.BgFullHeight)
	case PropStrikethrough:
		return strconv.FormatBool(v.Strikethrough)
	case PropInvisible:
		return strconv.FormatBool(v.Invisible)
	case PropEditable:
		return strconv.FormatBool(v.Editable)
	case PropFamily:
		return v.Font.Family
	case PropStyle:
		return enumName(styleNames, int(v.Font.Style))
	case PropVariant:
		return enumName(variantNames, int(v.Font.Variant))
	case PropStretch:
		return enumName(stretchNames, int(v.Font.Stretch))
	case PropUnderline:
		return enumName(underlineNames, int(v.Underline))
	case PropJustification:
		return enumName(justificationNames, int(v.Justification))
	case PropDirection:
		return enumName(directionNames, int(v.Direction))
	case PropWrapMode:
		return enumName(wrapNames, int(v.WrapMode))
	case PropWeight:
		return strconv.Itoa(v.Font.Weight)
	case PropSize:
		return strconv.FormatFloat(v.Font.Size, 'g', -1, 64)
	case PropScale:
		return strconv.FormatFloat(v.FontScale, 'g', -1, 64)
	case PropLeftMargin:
		return strconv.Itoa(v.LeftMargin)
	case PropRightMargin:
		return strconv.Itoa(v.RightMargin)
	case PropIndent:
		return strconv.Itoa(v.Indent)
	case PropRise:
		return strconv.Itoa(v.Rise)
	case PropPixelsAboveLines:
		return strconv.Itoa(v.PixelsAboveLines)
	case PropPixelsBelowLines:
		return strconv.Itoa(v.PixelsBelowLines)
	case PropPixelsInsideWrap:
		return strconv.Itoa(v.PixelsInsideWrap)
	case PropLetterSpacing:
		return strconv.Itoa(v.LetterSpacing)
	case PropLanguage:
		return v.Language.String()
	case PropTabs:
		stops := make([]string, len(v.Tabs))
		for i, tab := range v.Tabs {
			stops[i] = strconv.Itoa(tab.Position)
		}
		return strings.Join(stops, ",")
	}
	return ""
}

// SetProperty sets a property from its string form, as produced by
// Properties.
func (t *Tag) SetProperty(name, value string) error {
	p, ok := PropertyByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	var err error
	var c Color
	var n, e int
	var f float64
	var b bool
	switch p {
	case PropForeground, PropBackground, PropParagraphBackground,
		PropStrikethroughColor, PropUnderlineColor:
		if c, err = ParseColor(value); err != nil {
			return err
		}
		switch p {
		case PropForeground:
			t.SetForeground(c)
		case PropBackground:
			t.SetBackground(c)
		case PropParagraphBackground:
			t.SetParagraphBackground(c)
		case PropStrikethroughColor:
			t.SetStrikethroughColor(c)
		default:
			t.SetUnderlineColor(c)
		}
	case PropBackgroundFullHeight, PropStrikethrough, PropInvisible, PropEditable:
		if b, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrIllegalValue, name, value)
		}
		switch p {
		case PropBackgroundFullHeight:
			t.SetBackgroundFullHeight(b)
		case PropStrikethrough:
			t.SetStrikethrough(b)
		case PropInvisible:
			t.SetInvisible(b)
		default:
			t.SetEditable(b)
		}
	case PropFamily:
		t.SetFamily(value)
	case PropStyle:
		if e, err = enumValue(styleNames, value); err == nil {
			t.SetStyle(FontStyle(e))
		}
	case PropVariant:
		if e, err = enumValue(variantNames, value); err == nil {
			t.SetVariant(FontVariant(e))
		}
	case PropStretch:
		if e, err = enumValue(stretchNames, value); err == nil {
			t.SetStretch(FontStretch(e))
		}
	case PropUnderline:
		if e, err = enumValue(underlineNames, value); err == nil {
			t.SetUnderline(Underline(e))
		}
	case PropJustification:
		if e, err = enumValue(justificationNames, value); err == nil {
			t.SetJustification(Justification(e))
		}
	case PropDirection:
		if e, err = enumValue(directionNames, value); err == nil {
			t.SetDirection(Direction(e))
		}
	case PropWrapMode:
		if e, err = enumValue(wrapNames, value); err == nil {
			t.SetWrapMode(WrapMode(e))
		}
	case PropSize, PropScale:
		if f, err = strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrIllegalValue, name, value)
		}
		if p == PropSize {
			t.SetSize(f)
		} else {
			t.SetScale(f)
		}
	case PropLanguage:
		lang, lerr := language.Parse(value)
		if lerr != nil {
			return fmt.Errorf("%w: %s=%q", ErrIllegalValue, name, value)
		}
		t.SetLanguage(lang)
	case PropTabs:
		var tabs []TabStop
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			if n, err = strconv.Atoi(s); err != nil {
				return fmt.Errorf("%w: %s=%q", ErrIllegalValue, name, value)
			}
			tabs = append(tabs, TabStop{Position: n})
		}
		t.SetTabs(tabs)
	default: // integer properties
		if n, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrIllegalValue, name, value)
		}
		t.setInt(p, n)
	}
	return err
}

func (t *Tag) setInt(p Property, n int) {
	switch p {
	case PropWeight:
		t.SetWeight(n)
	case PropLeftMargin:
		t.SetLeftMargin(n)
	case PropRightMargin:
		t.SetRightMargin(n)
	case PropIndent:
		t.SetIndent(n)
	case PropRise:
		t.SetRise(n)
	case PropPixelsAboveLines:
		t.SetPixelsAboveLines(n)
	case PropPixelsBelowLines:
		t.SetPixelsBelowLines(n)
	case PropPixelsInsideWrap:
		t.SetPixelsInsideWrap(n)
	case PropLetterSpacing:
		t.SetLetterSpacing(n)
	}
}
