// Package pipeline holds the stages around the wiki engine:
//   - input normalization before formatting (line endings, BOM, NFC)
//   - a goldmark renderer for {{{#!markdown}}} blocks
//   - standalone HTML5 document assembly and CSS injection
//
// Wiki formatting itself lives in internal/wiki. The root wiki2html package
// wires the stages together.
package pipeline
