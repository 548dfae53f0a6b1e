package config

import "github.com/bascanada/seclog/pkg/query/expression"

var (
	setExpressions  = []string{expression.Equals, expression.NotEquals, expression.In, expression.NotIn}
	textExpressions = []string{expression.Like, expression.NotLike}
)

// Default returns the built-in configuration holding a catalog of the
// usual security log attributes.
func Default() *Config {
	return &Config{
		Catalogs: map[string]Catalog{
			DefaultCatalog: {
				Description: "Network and authentication security events",
				Assets:      "${SECLOG_ASSETS:-}",
				Items: []FieldConfig{
					{Key: "source_ip", Display: "Source IP", Description: "Address the connection comes from", Expressions: setExpressions, Validate: "ip"},
					{Key: "destination_ip", Display: "Destination IP", Description: "Address the connection goes to", Expressions: setExpressions, Validate: "ip"},
					{Key: "source_port", Display: "Source port", Description: "Port the connection comes from", Asset: "ports", Validate: "port"},
					{Key: "destination_port", Display: "Destination port", Description: "Port the connection goes to", Asset: "ports", Validate: "port"},
					{Key: "protocol", Display: "Protocol", Description: "Transport protocol", Expressions: setExpressions, Values: []string{"TCP", "UDP", "ICMP"}},
					{Key: "host", Display: "Host", Description: "Host reporting the event", Expressions: setExpressions, Asset: "hosts"},
					{Key: "service", Display: "Service", Description: "Service reporting the event", Expressions: setExpressions, Asset: "services"},
					{Key: "user", Display: "User", Description: "Account involved", Expressions: setExpressions, Asset: "users"},
					{Key: "action", Display: "Action", Description: "Decision taken", Expressions: setExpressions, Values: []string{"allow", "deny", "drop", "reject"}},
					{Key: "severity", Display: "Severity", Description: "Event severity", Expressions: setExpressions, Values: []string{"low", "medium", "high", "critical"}},
					{Key: "event_id", Display: "Event ID", Description: "Numeric identifier of the event", Validate: "number"},
					{Key: "bytes", Display: "Bytes", Description: "Bytes transferred", Validate: "number"},
					{Key: "message", Display: "Message", Description: "Raw log line", LocalOnly: true, LocalExpressions: textExpressions},
				},
			},
		},
	}
}
