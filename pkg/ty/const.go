// Package ty provides utility types and constants.
package ty

import "time"

// Format is the timestamp layout of log entries.
const Format = time.RFC3339Nano

// RegexTimestampFormat matches a leading RFC3339 timestamp in a raw line.
const RegexTimestampFormat string = `^([0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?(Z|[+-][0-9]{2}:[0-9]{2}))`
