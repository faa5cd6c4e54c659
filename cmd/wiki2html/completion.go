package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.wiki")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"mode": {Values: []string{"html", "oneliner", "outline", "link"}},

	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        cmdConvert,
			Desc:        "Convert wiki files to HTML",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})),
			TakesFiles:  true,
			FilePattern: "*.wiki,*.txt",
		},
		{Name: cmdStyles, Desc: "List available stylesheets"},
		{Name: cmdCompletion, Desc: "Generate shell completion script"},
		{Name: cmdVersion, Desc: "Show version information"},
		{Name: cmdHelp, Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for wiki2html\n")
	b.WriteString("_wiki2html() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		switch {
		case c.Name == cmdHelp:
			fmt.Fprintf(&b, "    %s)\n        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n        ;;\n",
				c.Name, strings.Join(commandNames(cmds), " "))
		case c.Name == cmdCompletion:
			fmt.Fprintf(&b, "    %s)\n        COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"$cur\"))\n        ;;\n", c.Name)
		case len(c.Flags) > 0:
			fmt.Fprintf(&b, "    %s)\n        case \"$prev\" in\n", c.Name)
			var words []string
			for _, f := range c.Flags {
				words = append(words, "--"+f.Long)
				if f.Short != "" {
					words = append(words, "-"+f.Short)
				}
				names := "--" + f.Long
				if f.Short != "" {
					names += "|-" + f.Short
				}
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "            %s)\n                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n                return ;;\n",
						names, strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(&b, "            %s)\n                COMPREPLY=($(compgen -f -- \"$cur\"))\n                return ;;\n", names)
				case flagDir:
					fmt.Fprintf(&b, "            %s)\n                COMPREPLY=($(compgen -d -- \"$cur\"))\n                return ;;\n", names)
				}
			}
			b.WriteString("        esac\n")
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words, " "))
			b.WriteString("        else\n            COMPREPLY=($(compgen -f -- \"$cur\"))\n        fi\n        ;;\n")
		}
	}

	b.WriteString("    esac\n}\n")
	b.WriteString("complete -F _wiki2html wiki2html\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef wiki2html\n\n")
	b.WriteString("_wiki2html() {\n")
	b.WriteString("    local -a commands\n    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		switch {
		case c.Name == cmdCompletion:
			fmt.Fprintf(&b, "    %s)\n        _values 'shell' bash zsh fish powershell\n        ;;\n", c.Name)
		case c.Name == cmdHelp:
			fmt.Fprintf(&b, "    %s)\n        _describe 'command' commands\n        ;;\n", c.Name)
		case len(c.Flags) > 0:
			fmt.Fprintf(&b, "    %s)\n        _arguments \\\n", c.Name)
			for _, f := range c.Flags {
				action := ""
				switch f.Type {
				case flagEnum:
					action = ":value:(" + strings.Join(f.Values, " ") + ")"
				case flagFile:
					action = ":file:_files"
				case flagDir:
					action = ":directory:_files -/"
				case flagString, flagInt:
					action = ":value:"
				}
				desc := "[" + zshEscape(f.Desc) + "]"
				if f.Short != "" {
					fmt.Fprintf(&b, "            '(-%s --%s)'{-%s,--%s}'%s%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
				} else {
					fmt.Fprintf(&b, "            '--%s%s%s' \\\n", f.Long, desc, action)
				}
			}
			b.WriteString("            '*:file:_files'\n        ;;\n")
		}
	}

	b.WriteString("    esac\n}\n\n")
	b.WriteString("_wiki2html \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder
	names := strings.Join(commandNames(cmds), " ")

	b.WriteString("# fish completion for wiki2html\n")
	b.WriteString("complete -c wiki2html -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c wiki2html -n \"not __fish_seen_subcommand_from %s\" -a %s -d %q\n",
			names, c.Name, c.Desc)
	}
	fmt.Fprintf(&b, "complete -c wiki2html -n \"__fish_seen_subcommand_from %s\" -a \"bash zsh fish powershell\"\n", cmdCompletion)

	for _, c := range cmds {
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c wiki2html -n \"__fish_seen_subcommand_from %s\" -F\n", c.Name)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c wiki2html -n \"__fish_seen_subcommand_from %s\" -l %s", c.Name, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a %q", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -r -a \"(__fish_complete_directories)\""
			case flagString, flagInt:
				line += " -r"
			}
			line += fmt.Sprintf(" -d %q\n", f.Desc)
			b.WriteString(line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for wiki2html\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName wiki2html -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = @(\n")
	for i, c := range cmds {
		sep := ","
		if i == len(cmds)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "        @{ Name = '%s'; Desc = '%s' }%s\n", c.Name, psEscape(c.Desc), sep)
	}
	b.WriteString("    )\n\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		var longs []string
		for _, f := range c.Flags {
			longs = append(longs, "'--"+f.Long+"'")
			if f.Short != "" {
				longs = append(longs, "'-"+f.Short+"'")
			}
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, strings.Join(longs, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $elements = $commandAst.CommandElements\n")
	b.WriteString("    if ($elements.Count -le 2 -and -not $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $commands | Where-Object { $_.Name -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterValue', $_.Desc)\n")
	b.WriteString("        }\n        return\n    }\n\n")
	b.WriteString("    $cmd = $elements[1].Value\n")
	b.WriteString("    if ($flags.ContainsKey($cmd) -and $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n    }\n}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wiki2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    eval \"$(wiki2html completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    eval \"$(wiki2html completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    wiki2html completion fish > ~/.config/fish/completions/wiki2html.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    wiki2html completion powershell | Out-String | Invoke-Expression")
}
