package formatter

import (
	"io"
	"strings"
	"unicode"

	"github.com/npillmayer/textbuffer"
	"github.com/npillmayer/textbuffer/logattr"
	"github.com/npillmayer/textbuffer/styled"
	"github.com/npillmayer/uax/uax11"
)

// Config represents a set of configuration parameters for formatting.
type Config struct {
	LineWidth int            // wrap lines at this many ‘en’s, 0 disables wrapping
	Bidi      bool           // signal the direction of every paragraph to the format
	Context   *uax11.Context // context for character widths
}

// Format is an interface for formatting drivers, given an io.Writer
type Format interface {
	Preamble(io.Writer)
	Postamble(io.Writer)
	StyledText(string, *styled.Attributes, io.Writer)
	LTR(io.Writer)
	RTL(io.Writer)
	Line(int, int, io.Writer)
	Newline(io.Writer)
}

// run is a piece of a paragraph with uniform attributes.
type run struct {
	text  string
	attrs *styled.Attributes
}

// Output formats the text between start and end using a given format.
// Invisible text and embedded objects are left out.
//
// Neither of the arguments may be nil. However, it is safe to have config.Context
// set to nil. In this case, uax11.LatinContext is used.
func Output(out io.Writer, start, end textbuffer.Iter, config *Config, format Format) error {
	if out == nil || config == nil || format == nil {
		return textbuffer.ErrIllegalArguments
	}
	b := start.Buffer()
	if b == nil || end.Buffer() != b {
		return textbuffer.ErrIllegalArguments
	}
	context := config.Context
	if context == nil {
		context = uax11.LatinContext
	}
	textbuffer.OrderIters(&start, &end)
	format.Preamble(out)
	it := start
	for i := 0; ; i++ {
		lineEnd := it
		if !lineEnd.EndsLine() {
			lineEnd.ForwardToLineEnd()
		}
		last := lineEnd.Compare(end) >= 0
		if last {
			lineEnd = end
		}
		runs := paragraphRuns(it, lineEnd)
		if !last || len(runs) > 0 {
			outputParagraph(out, runs, config, context, format)
			T().Debugf("[%3d] paragraph with %d runs", i, len(runs))
			format.Newline(out)
		}
		if last {
			break
		}
		it.ForwardLine()
	}
	format.Postamble(out)
	return nil
}

// paragraphRuns collects the visible runs of text between from and to,
// splitting at tag toggles.
func paragraphRuns(from, to textbuffer.Iter) []run {
	var runs []run
	pos := from
	for pos.Compare(to) < 0 {
		next := pos
		if !next.ForwardToTagToggle(nil) || next.Compare(to) > 0 {
			next = to
		}
		attrs := pos.Attributes()
		if text := pos.Text(next); !attrs.Invisible && text != "" {
			runs = append(runs, run{text: text, attrs: attrs})
		}
		pos = next
	}
	return runs
}

// outputParagraph wraps a paragraph and hands its runs to format, line by
// line.
func outputParagraph(out io.Writer, runs []run, config *Config, context *uax11.Context, format Format) {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.text)
	}
	text := sb.String()
	if config.Bidi {
		if logattr.BaseDirection(text) == styled.DirRTL {
			format.RTL(out)
		} else {
			format.LTR(out)
		}
	}
	breaks := []int{len(text)}
	if config.LineWidth > 0 {
		breaks = firstFit(text, config.LineWidth, context)
	}
	lineStart, k, runStart := 0, 0, 0 // k is the current run, starting at byte runStart
	for i, pos := range breaks {
		if i > 0 {
			format.Newline(out)
		}
		lineEnd := pos
		if i < len(breaks)-1 { // white space at a wrapped line end is dropped
			lineEnd = lineStart + len(strings.TrimRightFunc(text[lineStart:pos], unicode.IsSpace))
		}
		format.Line(stringWidth(text[lineStart:lineEnd], context), config.LineWidth, out)
		for lineStart < lineEnd {
			runEnd := runStart + len(runs[k].text)
			to := min(runEnd, lineEnd)
			format.StyledText(text[lineStart:to], runs[k].attrs, out)
			lineStart = to
			if to == runEnd {
				runStart = runEnd
				k++
			}
		}
		// skip dropped white space
		for lineStart < pos {
			runEnd := runStart + len(runs[k].text)
			lineStart = min(runEnd, pos)
			if lineStart == runEnd {
				runStart = runEnd
				k++
			}
		}
	}
}

// Print outputs the text between start and end to w, using a console
// format.
//
// If parameter config is nil, a heuristic will create a config from the
// current terminal's properties (if stdout is interactive). Config.Context
// will also be created based on heuristics from the user environment.
func Print(w io.Writer, start, end textbuffer.Iter, config *Config) error {
	if config == nil {
		config = ConfigFromTerminal()
		config.Context = uax11.ContextFromEnvironment()
	}
	consoleFmt := NewConsoleFixedWidthFormat(nil, false)
	return Output(w, start, end, config, consoleFmt)
}
