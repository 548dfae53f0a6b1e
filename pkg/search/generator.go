package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/bascanada/seclog/pkg/ty"
)

// GeneratorOptions configure Generate. Hosts and Users are drawn from
// when set, fake values are made up otherwise.
type GeneratorOptions struct {
	Size      int
	Seed      int64
	ErrorRate int
	WarnRate  int
	Start     time.Time
	Span      time.Duration
	Hosts     []string
	Users     []string
}

var (
	protocols = []string{"TCP", "UDP", "ICMP"}
	services  = []string{"sshd", "nginx", "postfix", "openvpn", "iptables", "sudo"}
	ports     = []string{"22", "25", "53", "80", "443", "1194", "3306", "8080"}

	infoEvents = []string{
		"connection accepted",
		"session opened for user %s",
		"certificate validated",
		"rule matched, traffic allowed",
		"login succeeded",
	}
	warnEvents = []string{
		"failed password for %s",
		"port scan detected",
		"rate limit approaching",
		"unexpected protocol on port %s",
	}
	errorEvents = []string{
		"brute force attempt blocked",
		"invalid certificate presented",
		"privilege escalation denied for %s",
		"malformed packet dropped",
	}
)

// Generate makes up security events spread over the span. A non zero
// seed makes the output reproducible.
func Generate(opts GeneratorOptions) []Entry {
	gofakeit.Seed(opts.Seed)

	if opts.Span <= 0 {
		opts.Span = 24 * time.Hour
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().Add(-opts.Span)
	}
	if len(opts.Hosts) == 0 {
		opts.Hosts = fakeList(8, func() string { return fmt.Sprintf("%s-%02d", gofakeit.RandomString([]string{"web", "db", "vpn", "mail"}), gofakeit.Number(1, 20)) })
	}
	if len(opts.Users) == 0 {
		opts.Users = fakeList(8, gofakeit.Username)
	}

	entries := make([]Entry, 0, opts.Size)
	for i := 0; i < opts.Size; i++ {
		entries = append(entries, generateEntry(opts, i))
	}
	return entries
}

func fakeList(n int, fake func() string) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = fake()
	}
	return res
}

func generateEntry(opts GeneratorOptions, i int) Entry {
	// timestamps grow with i so the output is sorted
	offset := time.Duration(int64(opts.Span) / int64(max(opts.Size, 1)) * int64(i))

	level, events, action := "INFO", infoEvents, "allow"
	switch roll := gofakeit.Number(1, 100); {
	case roll <= opts.ErrorRate:
		level, events, action = "ERROR", errorEvents, gofakeit.RandomString([]string{"deny", "drop"})
	case roll <= opts.ErrorRate+opts.WarnRate:
		level, events, action = "WARN", warnEvents, gofakeit.RandomString([]string{"allow", "reject"})
	}

	user := gofakeit.RandomString(opts.Users)
	port := gofakeit.RandomString(ports)
	message := gofakeit.RandomString(events)
	switch {
	case strings.Contains(message, "port %s"):
		message = fmt.Sprintf(message, port)
	case strings.Contains(message, "%s"):
		message = fmt.Sprintf(message, user)
	}

	return Entry{
		Timestamp: opts.Start.Add(offset).UTC(),
		Level:     level,
		Message:   message,
		Fields: ty.MI{
			"source_ip":        gofakeit.IPv4Address(),
			"destination_ip":   gofakeit.IPv4Address(),
			"destination_port": port,
			"protocol":         gofakeit.RandomString(protocols),
			"host":             gofakeit.RandomString(opts.Hosts),
			"service":          gofakeit.RandomString(services),
			"user":             user,
			"action":           action,
			"bytes":            gofakeit.Number(40, 65535),
		},
	}
}

// WriteJSONLines writes one flat JSON object per entry, the layout
// ReadEntries reads back.
func WriteJSONLines(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		record := ty.MI{}
		for k, v := range e.Fields {
			record[k] = v
		}
		record["@timestamp"] = e.Timestamp.Format(ty.Format)
		record["level"] = e.Level
		record["message"] = e.Message
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("encoding entry: %w", err)
		}
	}
	return nil
}
