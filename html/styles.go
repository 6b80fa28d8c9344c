package html

import (
	"fmt"
	"strings"

	"github.com/npillmayer/textbuffer/styled"
)

// Style is a set of inline text styles, applicable on runs of characters.
type Style int

// Inline styles HTML elements map to.
const (
	PlainStyle Style = 0
	BoldStyle  Style = 1 << (iota - 1)
	ItalicStyle
	UnderlineStyle
	StrikethroughStyle
	MonospaceStyle
	SuperscriptStyle
	SubscriptStyle
)

const numStyles = 7

var styleTagNames = [numStyles]string{
	"bold", "italic", "underline", "strikethrough", "monospace", "superscript", "subscript",
}

// Add returns the union of two styles.
func (s Style) Add(other Style) Style {
	return s | other
}

// Minus removes other from s.
func (s Style) Minus(other Style) Style {
	return s & ^other
}

// TagNames lists the names of the tags representing s.
func (s Style) TagNames() []string {
	var names []string
	for i := 0; i < numStyles; i++ {
		if s&(1<<i) != 0 {
			names = append(names, styleTagNames[i])
		}
	}
	return names
}

func (s Style) String() string {
	if s == PlainStyle {
		return "plain"
	}
	return strings.Join(s.TagNames(), "+")
}

// StyleFromElement returns the inline style of an HTML element.
func StyleFromElement(name string) Style {
	switch strings.ToLower(name) {
	case "b", "strong":
		return BoldStyle
	case "i", "em", "cite", "var", "dfn":
		return ItalicStyle
	case "u", "ins":
		return UnderlineStyle
	case "s", "strike", "del":
		return StrikethroughStyle
	case "tt", "code", "kbd", "samp", "pre":
		return MonospaceStyle
	case "sup":
		return SuperscriptStyle
	case "sub":
		return SubscriptStyle
	}
	return PlainStyle
}

// headingLevel returns 1…6 for h1…h6, 0 otherwise.
func headingLevel(name string) int {
	if len(name) == 2 && (name[0] == 'h' || name[0] == 'H') && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}

func headingTagName(level int) string {
	return fmt.Sprintf("heading-%d", level)
}

var headingScale = [7]float64{1, 2.0, 1.5, 1.17, 1.0, 0.83, 0.67}

// NewStyleTag creates a tag for one of the tag names this package uses,
// with attributes resembling a browser's default style sheet. It returns
// nil for other names.
func NewStyleTag(name string) *styled.Tag {
	tag := styled.NewTag(name)
	switch name {
	case "bold":
		tag.SetWeight(styled.WeightBold)
	case "italic":
		tag.SetStyle(styled.StyleItalic)
	case "underline":
		tag.SetUnderline(styled.UnderlineSingle)
	case "strikethrough":
		tag.SetStrikethrough(true)
	case "monospace":
		tag.SetFamily("monospace")
	case "superscript":
		tag.SetRise(4).SetScale(0.8)
	case "subscript":
		tag.SetRise(-4).SetScale(0.8)
	default:
		var level int
		if _, err := fmt.Sscanf(name, "heading-%d", &level); err != nil || level < 1 || level > 6 {
			return nil
		}
		tag.SetWeight(styled.WeightBold).SetScale(headingScale[level])
	}
	return tag
}
