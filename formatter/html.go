package formatter

import (
	"fmt"
	"io"

	"github.com/npillmayer/textbuffer"
	"github.com/npillmayer/textbuffer/styled"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/net/html"
)

// HTML is a format for simple HTML output.
type HTML struct {
	bidi bool // a span with a dir attribute is open
}

// NewHTML creates an HTML formatter.
func NewHTML() *HTML {
	return &HTML{}
}

// Print outputs the text between start and end as HTML.
//
// If parameter config is nil, a default configuration will be used.
// Config.Context will also be created based on heuristics
// from the user environment.
func (h *HTML) Print(w io.Writer, start, end textbuffer.Iter, config *Config) error {
	if config == nil {
		config = &Config{
			LineWidth: 40,
			Context:   uax11.ContextFromEnvironment(),
		}
	}
	return Output(w, start, end, config, h)
}

type htmlElement struct {
	open, close string
}

func htmlElements(attrs *styled.Attributes) []htmlElement {
	var elems []htmlElement
	if attrs.Font.Weight > styled.WeightMedium {
		elems = append(elems, htmlElement{"<b>", "</b>"})
	}
	if attrs.Font.Style != styled.StyleNormal {
		elems = append(elems, htmlElement{"<i>", "</i>"})
	}
	if attrs.Underline != styled.UnderlineNone {
		elems = append(elems, htmlElement{"<u>", "</u>"})
	}
	if attrs.Strikethrough {
		elems = append(elems, htmlElement{"<s>", "</s>"})
	}
	switch {
	case attrs.Rise > 0:
		elems = append(elems, htmlElement{"<sup>", "</sup>"})
	case attrs.Rise < 0:
		elems = append(elems, htmlElement{"<sub>", "</sub>"})
	}
	var css string
	if fg := attrs.Foreground; !fg.IsTransparent() && fg != styled.Black {
		css += "color:" + cssColor(fg) + ";"
	}
	if bg := attrs.Background; !bg.IsTransparent() {
		css += "background-color:" + cssColor(bg) + ";"
	}
	if css != "" {
		elems = append(elems, htmlElement{`<span style="` + css + `">`, "</span>"})
	}
	return elems
}

func cssColor(c styled.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R>>8, c.G>>8, c.B>>8)
}

// StyledText is called by the formatting driver to output a sequence of
// uniformly styled text (item).
// (Part of interface Format)
func (h *HTML) StyledText(s string, attrs *styled.Attributes, w io.Writer) {
	if attrs == nil {
		io.WriteString(w, html.EscapeString(s))
		return
	}
	elems := htmlElements(attrs)
	for _, e := range elems {
		io.WriteString(w, e.open)
	}
	io.WriteString(w, html.EscapeString(s))
	for i := len(elems) - 1; i >= 0; i-- {
		io.WriteString(w, elems[i].close)
	}
}

// Preamble is called by the output driver before text will be formatted.
// It outputs a `pre` tag.
// (Part of interface Format)
func (h *HTML) Preamble(w io.Writer) {
	io.WriteString(w, "<pre>\n")
}

// Postamble will be called after text has been formatted.
// It outputs a closing `</span>` if necessary, and a closing `</pre>` tag.
// (Part of interface Format)
func (h *HTML) Postamble(w io.Writer) {
	if h.bidi {
		io.WriteString(w, "</span>")
		h.bidi = false
	}
	io.WriteString(w, "</pre>\n")
}

// LTR signals to w that a left-to-right paragraph is to be output.
// It outputs a closing `</span>` if necessary, and a `<span dir="ltr">` tag.
// (Part of interface Format)
func (h *HTML) LTR(w io.Writer) {
	h.direction("ltr", w)
}

// RTL signals to w that a right-to-left paragraph is to be output.
// It outputs a closing `</span>` if necessary, and a `<span dir="rtl">` tag.
// (Part of interface Format)
func (h *HTML) RTL(w io.Writer) {
	h.direction("rtl", w)
}

func (h *HTML) direction(dir string, w io.Writer) {
	if h.bidi {
		io.WriteString(w, "</span>")
	}
	io.WriteString(w, `<span dir="`+dir+`">`)
	h.bidi = true
}

// Line is a signal from the output driver that a new line is to be output.
//
// Currently does nothing.
// (Part of interface Format)
func (h *HTML) Line(length int, linelength int, w io.Writer) {
}

// Newline will be called at the end of every formatted line of text.
// (Part of interface Format)
func (h *HTML) Newline(w io.Writer) {
	io.WriteString(w, "\n")
}
