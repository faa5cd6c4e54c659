// Package wiki renders wiki markup to HTML.
//
// # Formatting
//
// A Formatter walks its input line by line. Each line is scanned once
// against a combined token pattern (see Rules) and every match is handed
// to a handler that either returns replacement markup or changes the
// block state (paragraphs, lists, quotes, tables, definition lists).
// Code blocks fenced with {{{ and }}} bypass scanning entirely and are
// handed to a Processor.
//
// # Variants
//
// The same engine drives four flavors:
//
//   - NewFormatter: full HTML rendering.
//   - NewOneLinerFormatter: inline markup only, block syntax is kept as text.
//   - NewOutlineFormatter: heading outline as nested ordered lists.
//   - NewLinkFormatter: the link found at the start of the text, if any.
//
// # Extension points
//
// An Env carries the collaborators a Formatter consults: LinkResolver for
// link namespaces, MacroProvider for [[Macro(args)]] calls and #!Macro
// blocks, Renderer for MIME-typed code blocks and a Sanitizer for raw HTML.
// Failures inside any of them are contained: they are logged through the
// Env logger and rendered as an inline system message.
//
// A Formatter is not safe for concurrent use and must not be re-entered.
// Nested content is always rendered by a fresh Formatter sharing the
// same Env.
package wiki
