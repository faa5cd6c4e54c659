package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlag wraps flag parsing failures.
var ErrInvalidFlag = errors.New("invalid flag")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds flags shaping the rendered output.
type outputFlags struct {
	path       string
	mode       string
	standalone bool
	page       string
	title      string
	lang       string
	shorten    int
}

// styleFlags holds stylesheet and highlighting flags.
type styleFlags struct {
	style     string
	disabled  bool
	highlight string
	assetPath string
}

// wikiFlags holds link and safety flags of the formatter.
type wikiFlags struct {
	baseHref      string
	projectURL    string
	unsafe        bool
	ignoreMissing bool
}

// outlineFlags holds the heading range of outline mode.
type outlineFlags struct {
	minDepth int
	maxDepth int
}

// convertFlags holds all flags of the convert command.
type convertFlags struct {
	common  commonFlags
	output  outputFlags
	style   styleFlags
	wiki    wikiFlags
	outline outlineFlags
	workers int
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.path, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.mode, "mode", "m", "", "rendering mode: html, oneliner, outline, link")
	fs.BoolVarP(&f.standalone, "standalone", "s", false, "wrap output in an HTML5 document")
	fs.StringVar(&f.page, "page", "", "page name of a single input (default: file name)")
	fs.StringVar(&f.title, "title", "", "document title (default: page name)")
	fs.StringVar(&f.lang, "lang", "", "document language")
	fs.IntVar(&f.shorten, "shorten", 0, "shorten one-liner output to this many characters")
}

func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet name, file path, or CSS content")
	fs.BoolVar(&f.disabled, "no-style", false, "disable stylesheets")
	fs.StringVar(&f.highlight, "highlight-style", "", "code highlighting style")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom styles and templates")
}

func addWikiFlags(fs *flag.FlagSet, f *wikiFlags) {
	fs.StringVar(&f.baseHref, "base-href", "", "URL prefix of wiki pages")
	fs.StringVar(&f.projectURL, "project-url", "", "prefix of server-relative links")
	fs.BoolVar(&f.unsafe, "unsafe", false, "render raw HTML without sanitizing")
	fs.BoolVar(&f.ignoreMissing, "ignore-missing", false, "render links to missing pages as plain text")
}

func addOutlineFlags(fs *flag.FlagSet, f *outlineFlags) {
	fs.IntVar(&f.minDepth, "outline-min", 0, "shallowest heading in outline mode (1-6)")
	fs.IntVar(&f.maxDepth, "outline-max", 0, "deepest heading in outline mode (1-6)")
}

// newConvertFlagSet registers every convert flag on a new FlagSet bound
// to f. Parsing and completion share it.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addStyleFlags(fs, &f.style)
	addWikiFlags(fs, &f.wiki)
	addOutlineFlags(fs, &f.outline)

	return fs
}

// parseConvertFlags parses convert arguments and returns the flags and
// the positional arguments. Returns flag.ErrHelp for -h and --help.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}

	return f, fs.Args(), nil
}
