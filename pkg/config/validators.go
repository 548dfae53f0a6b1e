package config

import (
	"net"
	"strconv"

	"github.com/bascanada/seclog/pkg/query"
)

// Validators are the value checks a catalog field can name.
var Validators = map[string]query.ValueValidator{
	"ip":     elementValidator("Invalid IP address", validIP),
	"port":   elementValidator("Invalid port", validPort),
	"number": elementValidator("Not a number", validNumber),
}

func validIP(v string) bool {
	if _, _, err := net.ParseCIDR(v); err == nil {
		return true
	}
	return net.ParseIP(v) != nil
}

func validPort(v string) bool {
	p, err := strconv.Atoi(v)
	return err == nil && p > 0 && p <= 65535
}

func validNumber(v string) bool {
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// elementValidator checks every non empty element of the value, empty
// elements being the placeholders of values still to type.
func elementValidator(msg string, valid func(string) bool) query.ValidatorFunc {
	return func(c query.Clause, _ any) *query.ValidationError {
		v, ok := c.Value.Get()
		if !ok {
			return nil
		}
		for i, item := range v.Items {
			if item == "" || valid(item) {
				continue
			}
			idx := query.NoIndex
			if v.Array {
				idx = i
			}
			return &query.ValidationError{Position: query.PositionValue, Message: msg, ArrayIndex: idx}
		}
		return nil
	}
}
