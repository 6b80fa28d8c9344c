/*
Command tbview loads a text file into a text buffer and prints it to the
console, wrapped to the terminal width.

	tbview [-w width] [-find needle] [-i] [-html] file

With -find, all occurrences of needle are highlighted. -i makes the search
case insensitive.

Configuration is read from a NestedText file at the usual locations for
application tag 'tbview' (e.g., $HOME/.config/tbview/config.nt) and from
environment variables with prefix TBVIEW_. Recognized keys are

	tbview.linewidth    default line width
	tbview.highlight    color for search matches (name or #rrggbb)
	tracingcore         trace level of the core tracer
	tracelevel.textbuffer  trace level of the buffer packages

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

For details please refer to the LICENSE file.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/textbuffer"
	"github.com/npillmayer/textbuffer/formatter"
	"github.com/npillmayer/textbuffer/styled"
	"github.com/npillmayer/textbuffer/textfile"
	"github.com/npillmayer/uax/uax11"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	conf := setupConfig()
	if err := run(ctx, conf, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "tbview: %v\n", err)
		}
		os.Exit(1)
	}
}

// setupConfig initializes the global configuration and the tracers.
func setupConfig() schuko.Configuration {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	k := koanf.New(".")
	conf := koanfadapter.New(k, "tbview", []string{"nt"})
	gconf.Initialize(conf)
	if err := loadEnvironment(conf); err != nil {
		gtrace.CoreTracer.Errorf("reading environment: %v", err)
	}
	gconf.SetDefaultTracingLevels()
	if err := trace2go.ConfigureRoot(conf, "tracelevel"); err != nil {
		gtrace.CoreTracer.Errorf("configuring tracers: %v", err)
	} else {
		tracing.SetTraceSelector(trace2go.Selector())
	}
	return conf
}

// loadEnvironment overrides configuration values from environment
// variables, e.g. TBVIEW_LINEWIDTH for tbview.linewidth.
func loadEnvironment(conf *koanfadapter.KConf) error {
	return conf.Koanf().Load(env.Provider("TBVIEW_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
}

// options are the command line flags, with defaults from the configuration.
type options struct {
	width     int
	needle    string
	fold      bool
	html      bool
	highlight styled.Color
	path      string
}

func parseOptions(conf schuko.Configuration, args []string, out io.Writer) (*options, error) {
	fs := flag.NewFlagSet("tbview", flag.ContinueOnError)
	fs.SetOutput(out)
	opts := &options{}
	fs.IntVar(&opts.width, "w", conf.GetInt("tbview.linewidth"), "line width, 0 for the terminal width")
	fs.StringVar(&opts.needle, "find", "", "highlight all occurrences of `needle`")
	fs.BoolVar(&opts.fold, "i", false, "case insensitive search")
	fs.BoolVar(&opts.html, "html", false, "output HTML instead of console text")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expecting exactly one file name")
	}
	opts.path = fs.Arg(0)
	opts.highlight = styled.Color{R: 0xffff, G: 0xffff, A: 0xffff}
	if spec := conf.GetString("tbview.highlight"); spec != "" {
		c, err := styled.ParseColor(spec)
		if err != nil {
			return nil, err
		}
		opts.highlight = c
	}
	return opts, nil
}

func run(ctx context.Context, conf schuko.Configuration, args []string, out io.Writer) error {
	opts, err := parseOptions(conf, args, out)
	if err != nil {
		return err
	}
	buf := textbuffer.New(textbuffer.Options{})
	defer buf.Close()
	if err := textfile.Load(ctx, opts.path, buf, 0); err != nil {
		return err
	}
	gtrace.CoreTracer.Infof("loaded %s: %d lines, %d chars", opts.path, buf.LineCount(), buf.CharCount())
	if opts.needle != "" {
		n, err := highlight(buf, opts)
		if err != nil {
			return err
		}
		gtrace.CoreTracer.Infof("%d matches for %q", n, opts.needle)
	}
	start, end := buf.Bounds()
	if opts.html {
		return formatter.NewHTML().Print(out, start, end, &formatter.Config{
			LineWidth: opts.width,
			Context:   uax11.ContextFromEnvironment(),
		})
	}
	config := formatter.ConfigFromTerminal()
	config.Context = uax11.ContextFromEnvironment()
	if opts.width > 0 {
		config.LineWidth = opts.width
	}
	return formatter.Print(out, start, end, config)
}

// highlight tags all matches of the search needle and returns their number.
func highlight(buf *textbuffer.Buffer, opts *options) (int, error) {
	tag, err := buf.CreateTag("match")
	if err != nil {
		return 0, err
	}
	tag.SetBackground(opts.highlight)
	var flags textbuffer.SearchFlags
	if opts.fold {
		flags |= textbuffer.SearchCaseInsensitive
	}
	n := 0
	it := buf.StartIter()
	for {
		s, e, found := it.ForwardSearch(opts.needle, flags, nil)
		if !found {
			return n, nil
		}
		buf.ApplyTag(tag, s, e)
		n++
		it = e
	}
}
