package ty

import "fmt"

// MI is a shorthand for map[string]interface{}
type MI map[string]interface{}

// GetString returns the value for the key formatted as a string, empty
// when missing.
func (mi MI) GetString(key string) string {
	v, ok := mi[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
