// Package flagx lets several config loaders share os.Args without tripping
// over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags listed in allowedFlags, together with their
// values. A flag is matched in its single-dash and double-dash spelling
// ("-a" also accepts "--a"), and both "-a value" and "-a=value" forms are
// recognised. Everything else, positional arguments included, is dropped.
//
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[normalize(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := allowed[normalize(name)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue {
			continue
		}

		// value supplied as the next token
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func normalize(name string) string {
	return "-" + strings.TrimLeft(name, "-")
}

// ConfigFileFlag returns the JSON config path given with -c or -config,
// or an empty string when neither is present.
func ConfigFileFlag() string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	return path
}
