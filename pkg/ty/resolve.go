package ty

import (
	"os"
	"regexp"
	"strings"
)

var variableRegex = regexp.MustCompile(`\$(\{([a-zA-Z_][a-zA-Z0-9_]*)(:-(.*?)?)?\}|([a-zA-Z_][a-zA-Z0-9_]*))`)

// Resolve replaces shell style ${VAR}, ${VAR:-default} and $VAR patterns
// with the values of vars, then of the environment. Unknown variables
// without default are left untouched.
func Resolve(input string, vars map[string]string) string {
	return variableRegex.ReplaceAllStringFunc(input, func(v string) string {
		parts := strings.SplitN(v, ":-", 2)
		varName := strings.Trim(parts[0], "${}")
		varName = strings.Trim(varName, "$")

		if val, ok := vars[varName]; ok {
			return val
		}

		if val, ok := os.LookupEnv(varName); ok {
			return val
		}

		if len(parts) == 2 {
			return strings.TrimSuffix(parts[1], "}")
		}

		return v
	})
}
