package wiki

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
)

// MacroError is a user-facing macro failure. Its message is shown as is.
type MacroError struct {
	Msg string
}

func (e *MacroError) Error() string { return e.Msg }

// NewMacroError formats a MacroError.
func NewMacroError(format string, args ...any) *MacroError {
	return &MacroError{Msg: fmt.Sprintf(format, args...)}
}

// ProcessorError is a user-facing processor failure. The rendered message
// quotes the block that failed.
type ProcessorError struct {
	Msg string
}

func (e *ProcessorError) Error() string { return e.Msg }

// SystemMessage renders a recoverable error. msg is markup; text is plain
// text shown preformatted below it.
func SystemMessage(msg, text string) string {
	var b strings.Builder
	b.WriteString(`<div class="system-message"><strong>`)
	b.WriteString(msg)
	b.WriteString(`</strong>`)
	if text != "" {
		b.WriteString(`<pre>`)
		b.WriteString(escapeHTML(text))
		b.WriteString(`</pre>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// unresolvedMessage is the fixed text for unknown macro/processor names.
func unresolvedMessage(name string) string {
	return SystemMessage(
		"Error: Failed to load processor <code>"+escapeHTML(name)+"</code>",
		fmt.Sprintf("No macro or processor named '%s' found", name),
	)
}

// failureMessage turns an error returned by a processor or macro into
// markup. label names the failed call, e.g. "Macro Foo(x)".
func failureMessage(logger *slog.Logger, label, block string, err error) string {
	var me *MacroError
	if errors.As(err, &me) {
		return SystemMessage(escapeHTML(label)+" failed", me.Msg)
	}
	var pe *ProcessorError
	if errors.As(err, &pe) {
		text := pe.Msg
		if block != "" {
			text += "\n\n" + block
		}
		return SystemMessage(escapeHTML(label)+" failed", text)
	}
	logger.Error(label+" failed", slog.String("error", err.Error()))
	return SystemMessage("Error: "+escapeHTML(label)+" failed", err.Error())
}

// recoverFailure converts a recovered panic into markup and logs it with
// the stack.
func recoverFailure(logger *slog.Logger, label string, r any) string {
	logger.Error(label+" panicked",
		slog.String("error", fmt.Sprint(r)),
		slog.String("stack", string(debug.Stack())),
	)
	return SystemMessage("Error: "+escapeHTML(label)+" failed", fmt.Sprint(r))
}
