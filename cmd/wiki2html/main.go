package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/alnah/go-wiki2html/internal/fileutil"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdConvert    = "convert"
	cmdStyles     = "styles"
	cmdCompletion = "completion"
	cmdVersion    = "version"
	cmdHelp       = "help"
)

// ErrUnknownCommand is returned for a command name that does not exist.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args (program name first) and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		// Piped text converts without a command.
		if env.StdinIsTerminal != nil && !env.StdinIsTerminal() {
			return report(runConvertCmd(nil, env), env)
		}
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) && looksLikeInput(cmd) {
		return report(runConvertCmd(args[1:], env), env)
	}

	var err error
	switch cmd {
	case cmdConvert:
		err = runConvertCmd(rest, env)
	case cmdStyles:
		err = runStyles(rest, env)
	case cmdCompletion:
		err = runCompletion(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "wiki2html %s\n", Version)
	case cmdHelp, "-h", "--help":
		err = runHelp(rest, env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return ExitUsage
	}

	return report(err, env)
}

// runConvertCmd parses convert flags and runs the conversion until done
// or interrupted.
func runConvertCmd(args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConvertUsage(env.Stdout)
			return nil
		}
		return err
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return runConvert(ctx, positional, flags, env)
}

// report prints err and maps it to an exit code.
func report(err error, env *Environment) int {
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
	}
	return exitCodeFor(err)
}

// isCommand reports whether name is a wiki2html command.
func isCommand(name string) bool {
	switch name {
	case cmdConvert, cmdStyles, cmdCompletion, cmdVersion, cmdHelp:
		return true
	}
	return false
}

// looksLikeInput reports whether a first argument that is not a command
// starts a convert invocation: a wiki file, a directory, stdin, or a flag.
func looksLikeInput(arg string) bool {
	switch arg {
	case "-h", "--help", "--version":
		return false
	case stdStream:
		return true
	}
	return strings.HasPrefix(arg, "-") || fileutil.IsWikiFile(arg) || fileutil.DirExists(arg)
}
