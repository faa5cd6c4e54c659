// Package wiki2html renders wiki markup to HTML.
//
// # Quick Start
//
// Create a converter and convert wiki text:
//
//	conv, err := wiki2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, wiki2html.Input{
//	    Text: "= Hello =\n\nThis is '''wiki''' text.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.html", result.HTML, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Preprocessing (line endings, byte order mark, Unicode NFC)
//  2. Formatting: a line-oriented block state machine and a single-pass
//     inline tokenizer render the text; code blocks go to processors,
//     macros and MIME-type renderers (chroma, goldmark)
//  3. For standalone output: an HTML5 document with the stylesheet and
//     highlight CSS injected
//
// Formatting never fails: a broken macro, processor or link is rendered
// as an inline system message and logged.
//
// # Modes
//
// Input.Mode selects the output:
//
//   - ModeHTML: full block HTML (default)
//   - ModeOneLiner: inline markup only, optionally shortened
//   - ModeOutline: nested ordered lists of the headings
//   - ModeLink: the link at the start of the text
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := wiki2html.NewConverter(
//	    wiki2html.WithBaseHref("/docs"),
//	    wiki2html.WithPages(wiki2html.NewPageList("WikiStart", "Guide")),
//	    wiki2html.WithInterWiki("wikipedia", "https://en.wikipedia.org/wiki/", "Wikipedia"),
//	    wiki2html.WithLogger(slog.Default()),
//	)
//
// Macros and MIME-type renderers plug in with WithMacros and
// WithRenderers. The builtin macros are PageOutline, TitleIndex,
// MacroList and Timestamp.
//
// # Parallel Processing
//
// A Converter is safe for concurrent use. To bound the conversions in
// flight, use ConverterPool:
//
//	pool := wiki2html.NewConverterPool(wiki2html.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Custom Assets
//
// Override the embedded stylesheets and document template with
// WithAssetPath:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── document.html
package wiki2html
