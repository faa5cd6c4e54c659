package wiki

import (
	"regexp"
	"strings"
)

var (
	processorParamRe = regexp.MustCompile(`([\w-]+)=("[^"]*"|'[^']*'|\S+)`)
	keywordArgRe     = regexp.MustCompile(`^\s*[a-zA-Z_]\w+=`)
)

// parseProcessorArgs reads the key=value pairs following a #!name
// shebang. Quoted values are unquoted.
func parseProcessorArgs(s string) map[string]string {
	matches := processorParamRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	args := make(map[string]string, len(matches))
	for _, m := range matches {
		args[m[1]] = unquote(m[2])
	}
	return args
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseArgs splits macro arguments on unescaped commas. Arguments of the
// form name=value are returned in kwargs, the others in order in args.
// "\," stands for a literal comma.
func ParseArgs(s string) (args []string, kwargs map[string]string) {
	kwargs = make(map[string]string)
	if s == "" {
		return nil, kwargs
	}
	for _, arg := range splitUnescaped(s, ',') {
		arg = strings.ReplaceAll(arg, `\,`, ",")
		if loc := keywordArgRe.FindStringIndex(arg); loc != nil {
			key := strings.TrimSpace(arg[:loc[1]-1])
			kwargs[key] = arg[loc[1]:]
			continue
		}
		args = append(args, arg)
	}
	return args, kwargs
}

func splitUnescaped(s string, sep byte) []string {
	var parts []string
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep && (i == 0 || s[i-1] != '\\') {
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}
