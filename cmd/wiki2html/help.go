package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert wiki files to HTML")
	fmt.Fprintln(w, "  styles      List available stylesheets")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'wiki2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html convert [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert wiki files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .wiki or .txt file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional when text is piped on stdin)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (- = stdout)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -m, --mode <s>            Mode: html, oneliner, outline, link")
	fmt.Fprintln(w, "  -s, --standalone          Wrap output in an HTML5 document")
	fmt.Fprintln(w, "      --page <s>            Page name of a single input")
	fmt.Fprintln(w, "      --title <s>           Document title (default: page name)")
	fmt.Fprintln(w, "      --lang <s>            Document language (default: en)")
	fmt.Fprintln(w, "      --shorten <n>         Shorten one-liner output to n characters")
	fmt.Fprintln(w, "      --outline-min <n>     Shallowest outline heading (1-6)")
	fmt.Fprintln(w, "      --outline-max <n>     Deepest outline heading (1-6)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Links:")
	fmt.Fprintln(w, "      --base-href <url>     URL prefix of wiki pages (default: /wiki)")
	fmt.Fprintln(w, "      --project-url <url>   Prefix of server-relative links")
	fmt.Fprintln(w, "      --ignore-missing      Render links to missing pages as text")
	fmt.Fprintln(w, "      --unsafe              Render raw HTML without sanitizing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Stylesheet name, file path, or CSS")
	fmt.Fprintln(w, "      --no-style            Disable stylesheets")
	fmt.Fprintln(w, "      --highlight-style <s> Code highlighting style (default: github)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  WIKI2HTML_CONFIG, WIKI2HTML_STYLE, WIKI2HTML_MODE, WIKI2HTML_OUTPUT_DIR,")
	fmt.Fprintln(w, "  WIKI2HTML_BASE_HREF, WIKI2HTML_LANG, WIKI2HTML_WORKERS")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  wiki2html convert WikiStart.wiki")
	fmt.Fprintln(w, "  wiki2html convert ./wiki/ -o ./site/ --standalone")
	fmt.Fprintln(w, "  echo \"= Title =\" | wiki2html convert --mode outline")
}

// printStylesUsage prints usage for the styles command.
func printStylesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html styles [--asset-path <dir>] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the stylesheets --style accepts by name.")
}

// runHelp prints help for the given command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case cmdConvert:
		printConvertUsage(env.Stdout)
	case cmdStyles:
		printStylesUsage(env.Stdout)
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: wiki2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: wiki2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
