package wiki2html_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-wiki2html"
)

// Example demonstrates basic wiki to HTML conversion.
func Example() {
	conv, err := wiki2html.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), wiki2html.Input{
		Text: "= Hello =\n\nThis is '''wiki''' text.",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Print(string(result.HTML))
	// Output:
	// <h1 id="Hello">Hello</h1>
	// <p>
	// This is <strong>wiki</strong> text.
	// </p>
}

// Example_oneLiner renders a summary line for a page list.
func Example_oneLiner() {
	conv, err := wiki2html.NewConverter(wiki2html.WithPages(wiki2html.NewPageList("WikiStart")))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), wiki2html.Input{
		Text: "Start at WikiStart, then read ''the guide''.",
		Mode: wiki2html.ModeOneLiner,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(string(result.HTML))
	// Output: Start at <a class="wiki" href="/wiki/WikiStart">WikiStart</a>, then read <em>the guide</em>.
}

// Example_macro registers a custom macro.
func Example_macro() {
	shout := wiki2html.Macro{
		Name:   "Shout",
		Inline: true,
		Expand: func(call wiki2html.MacroCall) (string, error) {
			return "<b>" + strings.ToUpper(call.Args) + "</b>", nil
		},
	}
	conv, err := wiki2html.NewConverter(wiki2html.WithMacros(shout))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), wiki2html.Input{
		Text: "Say [[Shout(hello)]] once.",
		Mode: wiki2html.ModeOneLiner,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(string(result.HTML))
	// Output: Say <b>HELLO</b> once.
}

// Example_standalone wraps the output in a complete HTML document.
func Example_standalone() {
	conv, err := wiki2html.NewConverter(wiki2html.WithStyle("plain"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), wiki2html.Input{
		Text:       "Hello",
		Title:      "Greeting",
		Standalone: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := string(result.HTML)
	fmt.Println(strings.HasPrefix(html, "<!DOCTYPE html>"))
	fmt.Println(strings.Contains(html, "<title>Greeting</title>"))
	// Output:
	// true
	// true
}

// Example_pool demonstrates bounded parallel conversion.
func Example_pool() {
	pool := wiki2html.NewConverterPool(2)
	defer pool.Close()

	ctx := context.Background()
	conv, err := pool.Acquire(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer pool.Release(conv)

	result, err := conv.Convert(ctx, wiki2html.Input{Text: "* one\n* two"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Print(string(result.HTML))
	// Output: <ul><li>one</li><li>two</li></ul>
}
