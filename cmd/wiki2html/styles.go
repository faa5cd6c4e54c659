package main

import (
	"encoding/json"
	"errors"
	"fmt"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/assets"
	flag "github.com/spf13/pflag"
)

// stylesResult is the JSON form of the styles command.
type stylesResult struct {
	Default   string   `json:"default"`
	AssetPath string   `json:"asset_path,omitempty"`
	Styles    []string `json:"styles"`
}

// runStyles lists the stylesheets a converter accepts by name: the
// embedded ones plus those of --asset-path.
func runStyles(args []string, env *Environment) error {
	var (
		assetPath  string
		jsonOutput bool
	)
	fs := flag.NewFlagSet("styles", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printStylesUsage(env.Stderr) }
	fs.StringVar(&assetPath, "asset-path", "", "directory with custom styles")
	fs.BoolVar(&jsonOutput, "json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}

	opts := []wiki2html.Option{wiki2html.WithoutStyle()}
	if assetPath != "" {
		opts = append(opts, wiki2html.WithAssetPath(assetPath))
	}
	conv, err := wiki2html.NewConverter(opts...)
	if err != nil {
		return err
	}

	names, err := conv.Styles()
	if err != nil {
		return fmt.Errorf("listing styles: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stylesResult{
			Default:   assets.DefaultStyleName,
			AssetPath: assetPath,
			Styles:    names,
		})
	}

	for _, name := range names {
		marker := " "
		if name == assets.DefaultStyleName {
			marker = "*"
		}
		fmt.Fprintf(env.Stdout, "%s %s\n", marker, name)
	}
	return nil
}
