package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .wiki or .txt extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// stdStream names stdin as input and stdout as output.
const stdStream = "-"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	Page       string // wiki page name, relative to the wiki root
}

// discoverFiles finds the wiki files to convert and indexes the pages of
// their wiki root: the input directory, or the directory of a single file.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, *wiki2html.PageList, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, nil, err
	}

	if !info.IsDir() {
		if err := validateWikiExtension(inputPath); err != nil {
			return nil, nil, err
		}
		root := filepath.Dir(inputPath)
		page, err := fileutil.PageName(root, inputPath)
		if err != nil {
			return nil, nil, err
		}
		pages, err := indexPages(root)
		if err != nil {
			return nil, nil, err
		}
		pages.Add(page)
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath, Page: page}}, pages, nil
	}

	var files []FileToConvert
	pages := wiki2html.NewPageList()
	err = walkWikiFiles(inputPath, func(path, page string) {
		pages.Add(page)
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath),
			Page:       page,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	return files, pages, nil
}

// indexPages lists the pages under root without converting them.
func indexPages(root string) (*wiki2html.PageList, error) {
	pages := wiki2html.NewPageList()
	err := walkWikiFiles(root, func(_, page string) { pages.Add(page) })
	return pages, err
}

// walkWikiFiles calls fn for every wiki file under root with its page
// name. Hidden directories such as .git are skipped.
func walkWikiFiles(root string, fn func(path, page string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsWikiFile(path) {
			return nil
		}
		page, err := fileutil.PageName(root, path)
		if err != nil {
			return err
		}
		fn(path, page)
		return nil
	})
}

// resolveOutputPath determines the HTML output path for a wiki file.
// Files under baseInputDir keep their relative directory in outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := fileutil.ReplaceExtension(filepath.Base(inputPath), ".html")

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if outputDir == stdStream || strings.HasSuffix(outputDir, ".html") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputDir, base)
}

// validateWikiExtension checks that the file has a wiki source extension.
func validateWikiExtension(path string) error {
	if !fileutil.IsWikiFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > wiki2html.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, wiki2html.MaxPoolSize)
	}
	return nil
}
