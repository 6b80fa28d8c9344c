package formatter

import (
	"io"

	"github.com/fatih/color"
	"github.com/npillmayer/textbuffer/styled"
	"golang.org/x/term"
)

// ControlCodes holds certain escape sequences which a terminal uses to control
// Bidi behaviour.
type ControlCodes struct {
	Preamble, Postamble []byte
	LTR, RTL            []byte
	Newline             []byte
}

// DefaultCodes is the default set of control codes.
// See https://terminal-wg.pages.freedesktop.org/bidi/recommendation/escape-sequences.html
var DefaultCodes = ControlCodes{
	Preamble:  []byte{27, '[', '8', 'l'}, // switch to explicit mode
	Postamble: []byte{},
	LTR:       []byte{27, '[', '1', ' ', 'k'},
	RTL:       []byte{27, '[', '2', ' ', 'k'},
	Newline:   []byte{'\n'},
}

// PlainCodes does not send any escape sequences.
var PlainCodes = ControlCodes{
	Newline: []byte{'\n'},
}

// ConsoleFixedWidth is a type for outputting formatted text to a console with
// a fixed width font.
//
// Console/Terminal output is notoriously tricky for bi-directional text and for
// scripts other than Latin. To fully appreciate the difficulties behind this,
// refer for example to
// https://terminal-wg.pages.freedesktop.org/bidi/bidi-intro/why-terminals-are-special.html
type ConsoleFixedWidth struct {
	Codes      *ControlCodes
	forceColor bool
	ccnt       int // number of character positions already printed for line
	ctarget    int // linelength in fixedwidth ‘en’s
}

// NewConsoleFixedWidthFormat creates a new formatter. It is to be used for consoles
// with a fixed width font.
//
// codes is a table of escape sequences to control Bidi behaviour of the console.
// Colors are used only if the output is a terminal, unless forceColor is set.
func NewConsoleFixedWidthFormat(codes *ControlCodes, forceColor bool) *ConsoleFixedWidth {
	fw := &ConsoleFixedWidth{
		Codes:      &PlainCodes,
		forceColor: forceColor,
	}
	if codes != nil {
		fw.Codes = codes
	}
	return fw
}

// colorAttributes derives terminal text attributes from an attribute set.
func colorAttributes(attrs *styled.Attributes) []color.Attribute {
	var ca []color.Attribute
	if attrs.Font.Weight > styled.WeightMedium {
		ca = append(ca, color.Bold)
	}
	if attrs.Font.Style != styled.StyleNormal {
		ca = append(ca, color.Italic)
	}
	if attrs.Underline != styled.UnderlineNone {
		ca = append(ca, color.Underline)
	}
	if attrs.Strikethrough {
		ca = append(ca, color.CrossedOut)
	}
	if fg := attrs.Foreground; !fg.IsTransparent() && fg != styled.Black {
		ca = append(ca, color.FgBlack+ansiIndex(fg))
	}
	if bg := attrs.Background; !bg.IsTransparent() {
		ca = append(ca, color.BgBlack+ansiIndex(bg))
	}
	return ca
}

// ansiIndex maps a color to one of the 8 basic terminal colors.
func ansiIndex(c styled.Color) color.Attribute {
	var i color.Attribute
	if c.R >= 0x8000 {
		i |= 1
	}
	if c.G >= 0x8000 {
		i |= 2
	}
	if c.B >= 0x8000 {
		i |= 4
	}
	return i
}

// StyledText is called by the formatting driver to output a sequence of
// uniformly styled text (item). It uses colors to visualize attributes.
// (Part of interface Format)
func (fw *ConsoleFixedWidth) StyledText(s string, attrs *styled.Attributes, w io.Writer) {
	fw.ccnt += len(s)
	var ca []color.Attribute
	if attrs != nil {
		ca = colorAttributes(attrs)
	}
	if len(ca) == 0 {
		w.Write([]byte(s))
		return
	}
	c := color.New(ca...)
	if fw.forceColor {
		c.EnableColor()
	}
	io.WriteString(w, c.Sprint(s))
}

// Preamble is called by the output driver before text will be formatted.
// It outputs the `Preamble` escape sequence from fw.Codes.
// (Part of interface Format)
func (fw *ConsoleFixedWidth) Preamble(w io.Writer) {
	w.Write(fw.Codes.Preamble)
}

// Postamble will be called after text has been formatted.
// It outputs the `Postamble` escape sequence from fw.Codes.
// (Part of interface Format)
func (fw *ConsoleFixedWidth) Postamble(w io.Writer) {
	w.Write(fw.Codes.Postamble)
}

// LTR signals to w that a left-to-right paragraph is to be output.
// (Part of interface Format)
func (fw *ConsoleFixedWidth) LTR(w io.Writer) {
	w.Write(fw.Codes.LTR)
}

// RTL signals to w that a right-to-left paragraph is to be output.
// (Part of interface Format)
func (fw *ConsoleFixedWidth) RTL(w io.Writer) {
	w.Write(fw.Codes.RTL)
}

// Line is a signal from the output driver that a new line is to be output.
// length is the total width of the characters that will be formatted, measured
// in “en”s, i.e. fixed width positions. linelength is the target line length
// to wrap long lines.
// (Part of interface Format)
func (fw *ConsoleFixedWidth) Line(length int, linelength int, w io.Writer) {
	fw.ccnt = 0
	fw.ctarget = linelength
}

// Newline will be called at the end of every formatted line of text.
// It outputs the `Newline` escape sequence from fw.Codes.
// (Part of interface Format)
func (fw *ConsoleFixedWidth) Newline(w io.Writer) {
	w.Write(fw.Codes.Newline)
}

// --- Config for terminals --------------------------------------------------

// ConfigFromTerminal is a simple helper for creating a formatting Config.
// It checks wether stdout is a terminal, and if so it reads the terminal's width
// and sets the Config.LineWidth parameter accordingly.
func ConfigFromTerminal() *Config {
	config := &Config{}
	if term.IsTerminal(1) {
		w, _, err := term.GetSize(1)
		if err != nil {
			config.LineWidth = 65
		} else {
			config.LineWidth = lineWidthFor(w)
		}
	} else {
		config.LineWidth = 65
	}
	T().P("format", "console").Infof("setting line length to %d en", config.LineWidth)
	return config
}

func lineWidthFor(w int) int {
	if w > 65 {
		return w - 10
	} else if w > 30 {
		return w - 5
	} else if w > 10 {
		return w
	}
	return 10
}
