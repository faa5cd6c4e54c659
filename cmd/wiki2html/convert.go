package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/assets"
	"github.com/alnah/go-wiki2html/internal/config"
	"github.com/alnah/go-wiki2html/internal/hints"
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, os.Environ())
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	// Precedence: CLI flags > env vars > config file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	mode, err := wiki2html.ParseMode(cfg.Output.Mode)
	if err != nil {
		return withHint(err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common)
	params := &conversionParams{
		mode:       mode,
		standalone: cfg.Output.Standalone,
		title:      flags.output.title,
		page:       flags.output.page,
		logger:     logger,
	}

	inputPath, err := resolveInputPath(positionalArgs, env)
	if err != nil {
		return err
	}

	if inputPath == stdStream {
		text, err := io.ReadAll(env.Stdin)
		if err != nil {
			return fmt.Errorf("%w: stdin: %v", ErrReadWiki, err)
		}
		pool := env.NewPool(1, buildConverterOptions(cfg, flags, nil, logger, env)...)
		defer func() { _ = pool.Close() }()
		return withHint(convertStream(ctx, pool, text, "", flags.output.path, env.Stdout, params))
	}

	outputDir := resolveOutputDir(flags.output.path, cfg)

	files, pages, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%w: no wiki files found in %s%s", ErrNoInput, inputPath, hints.ForNoInput())
	}

	opts := buildConverterOptions(cfg, flags, pages, logger, env)

	if outputDir == stdStream {
		if len(files) > 1 {
			return fmt.Errorf("%w: --output - needs a single input file", ErrInvalidFlag)
		}
		text, err := os.ReadFile(files[0].InputPath) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadWiki, err)
		}
		pool := env.NewPool(1, opts...)
		defer func() { _ = pool.Close() }()
		return withHint(convertStream(ctx, pool, text, files[0].Page, stdStream, env.Stdout, params))
	}

	// The page override only makes sense for one file.
	if len(files) > 1 {
		params.page = ""
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := wiki2html.ResolvePoolSize(workers)
	logger.Debug("starting conversion", "files", len(files), "pool", poolSize)

	pool := env.NewPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	// Build one converter up front so invalid options fail once instead
	// of once per file.
	conv, err := pool.Acquire(ctx)
	if err != nil {
		return withHint(err)
	}
	pool.Release(conv)

	results := convertBatch(ctx, pool, files, params)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// loadConfig loads the config named by the flag, then by
// WIKI2HTML_CONFIG, falling back to the defaults.
func loadConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Output flags
	if flags.output.mode != "" {
		cfg.Output.Mode = flags.output.mode
	}
	if flags.output.standalone {
		cfg.Output.Standalone = true
	}
	if flags.output.lang != "" {
		cfg.Output.Lang = flags.output.lang
	}
	if flags.output.shorten > 0 {
		cfg.OneLiner.ShortenWidth = flags.output.shorten
	}

	// Style flags
	if flags.style.style != "" {
		cfg.Output.Style = flags.style.style
	}
	if flags.style.highlight != "" {
		cfg.Highlight.Style = flags.style.highlight
	}
	if flags.style.assetPath != "" {
		cfg.Assets.BasePath = flags.style.assetPath
	}

	// Wiki flags
	if flags.wiki.baseHref != "" {
		cfg.Wiki.BaseHref = flags.wiki.baseHref
	}
	if flags.wiki.projectURL != "" {
		cfg.Wiki.ProjectURL = flags.wiki.projectURL
	}
	if flags.wiki.unsafe {
		cfg.Wiki.RenderUnsafeContent = true
	}
	if flags.wiki.ignoreMissing {
		cfg.Wiki.IgnoreMissingPages = true
	}

	// Outline flags
	if flags.outline.minDepth != 0 {
		cfg.Outline.MinDepth = flags.outline.minDepth
	}
	if flags.outline.maxDepth != 0 {
		cfg.Outline.MaxDepth = flags.outline.maxDepth
	}
}

// buildConverterOptions translates the merged config into converter
// options. A nil pages index treats every page as existing.
func buildConverterOptions(cfg *config.Config, flags *convertFlags, pages *wiki2html.PageList, logger *slog.Logger, env *Environment) []wiki2html.Option {
	opts := []wiki2html.Option{
		wiki2html.WithLogger(logger),
		wiki2html.WithClock(env.Now),
		wiki2html.WithBaseHref(cfg.Wiki.BaseHref),
		wiki2html.WithProjectURL(cfg.Wiki.ProjectURL),
		wiki2html.WithUnsafeContent(cfg.Wiki.RenderUnsafeContent),
		wiki2html.WithIgnoreMissingPages(cfg.Wiki.IgnoreMissingPages),
		wiki2html.WithHighlightStyle(cfg.Highlight.Style),
		wiki2html.WithLang(cfg.Output.Lang),
		wiki2html.WithShortenWidth(cfg.OneLiner.ShortenWidth),
		wiki2html.WithOutlineDepth(depthOr(cfg.Outline.MinDepth, wiki2html.MinOutlineDepth),
			depthOr(cfg.Outline.MaxDepth, wiki2html.MaxOutlineDepth)),
	}

	if len(cfg.Wiki.SafeSchemes) > 0 {
		opts = append(opts, wiki2html.WithSafeSchemes(cfg.Wiki.SafeSchemes...))
	}
	for prefix, site := range cfg.InterWiki {
		opts = append(opts, wiki2html.WithInterWiki(prefix, site.URL, site.Title))
	}
	for alias, site := range cfg.InterTrac {
		opts = append(opts, wiki2html.WithInterTrac(alias, site.URL, site.Title))
	}
	if pages != nil {
		opts = append(opts, wiki2html.WithPages(pages))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, wiki2html.WithAssetPath(cfg.Assets.BasePath))
	}

	switch {
	case flags.style.disabled:
		opts = append(opts, wiki2html.WithoutStyle())
	case cfg.Output.Style != "":
		opts = append(opts, wiki2html.WithStyle(cfg.Output.Style))
	}

	return opts
}

func depthOr(depth, fallback int) int {
	if depth == 0 {
		return fallback
	}
	return depth
}

// resolveInputPath returns the input argument, or "-" when no argument
// is given and text is piped on stdin.
func resolveInputPath(args []string, env *Environment) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one input, got %d", ErrInvalidFlag, len(args))
	}
	if len(args) == 1 {
		return args[0], nil
	}
	if env.StdinIsTerminal != nil && !env.StdinIsTerminal() {
		return stdStream, nil
	}
	return "", fmt.Errorf("%w%s", ErrNoInput, hints.ForNoInput())
}

// resolveOutputDir returns the output flag, or the config default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// newLogger returns a text logger on w. Quiet keeps errors only;
// verbose adds debug records.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withHint appends an actionable hint to errors users can fix.
func withHint(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wiki2html.ErrStyleNotFound):
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.ListStyles()))
	case errors.Is(err, wiki2html.ErrInvalidMode):
		return fmt.Errorf("%w%s", err, hints.ForMode(modeNames()))
	case errors.Is(err, wiki2html.ErrInvalidOutlineDepth):
		return fmt.Errorf("%w%s", err, hints.ForOutlineDepth())
	case errors.Is(err, ErrWriteHTML):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	default:
		return err
	}
}

// modeNames lists the rendering modes as strings.
func modeNames() []string {
	names := make([]string, len(wiki2html.Modes))
	for i, m := range wiki2html.Modes {
		names[i] = string(m)
	}
	return names
}
