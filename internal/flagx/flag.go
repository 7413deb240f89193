// Package flagx lets several configuration layers share one command line.
// Each layer keeps only the flags it understands and parses them with its
// own FlagSet, so unrelated flags never cause "flag provided but not defined".
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args made of the allowed flags and their
// values. Two forms are recognised:
//
//	-d /var/lib/pestcrm      flag and value as separate arguments
//	--config=crm.json        flag and value joined by '='
//
// A separate value is taken only when the next argument does not itself
// start with '-'. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, joined := strings.Cut(arg, "="); joined && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the JSON config file path given via -c or -config.
// It returns "" when neither flag is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}
