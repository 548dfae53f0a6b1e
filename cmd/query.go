// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"

	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/log/printer"
	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/search"
	"github.com/bascanada/seclog/pkg/ty"
	"github.com/spf13/cobra"
)

var (
	localClauses []string
	template     string
	jsonOutput   bool
)

var queryCommand = &cobra.Command{
	Use:   "query [clause...]",
	Short: "Validate clauses and print the search request they build",
	Long: `Parse each argument as a "field expression value" clause, validate it
against the catalog and print the request sent to the backend.

With --entries the request is evaluated on a log file instead and the
matching entries are printed.

Examples:
  seclog query "source_ip = 10.0.0.1" "protocol in TCP, UDP"
  seclog query "action = deny" --local "message like scan"
  seclog query "user = alice" --entries auth.log --format '{{.Message}}'`,
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runQuery(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	queryCommand.Flags().StringArrayVarP(&localClauses, "local", "l", []string{}, "Clause evaluated on the returned entries instead of the backend")
	queryCommand.Flags().StringVar(&template, "format", "", "Format for the log entry, a Go text/template")
	queryCommand.Flags().BoolVar(&jsonOutput, "json", false, "Only output the request as JSON")
	addEntriesFlags(queryCommand)
}

// parseClauses parses raw clauses, flagging them local when asked.
func parseClauses(raw []string, local bool) []query.Clause {
	clauses := make([]query.Clause, 0, len(raw))
	for _, r := range raw {
		c := query.Parse(r, query.NewKey())
		if local {
			c.IsLocal = ty.OptWrap(true)
		}
		clauses = append(clauses, c)
	}
	return clauses
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}

	clauses := append(parseClauses(args, false), parseClauses(localClauses, true)...)
	if len(clauses) == 0 {
		return fmt.Errorf("no clause given")
	}

	out := cmd.OutOrStdout()
	invalid := 0
	for _, c := range clauses {
		verr := query.Validate(s.Fields, c, s.Assets)
		if verr != nil {
			invalid++
			log.Debug("clause '%s' rejected: %s", query.Serialize(c), verr.Error())
		}
		if verr == nil && (jsonOutput || entriesPath != "") {
			continue
		}
		w := out
		if verr != nil {
			w = cmd.ErrOrStderr()
		}
		if err := printer.PrintClause(w, c, verr); err != nil {
			return err
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d invalid clause(s)", invalid)
	}

	req := search.BuildRequest(s.Fields, clauses, s.Assets)

	entries, err := readEntries()
	if err != nil {
		return err
	}
	if entries == nil {
		return printer.PrintJSON(out, req)
	}

	conds := append(append([]search.Condition{}, req.Conditions...), req.Local...)
	matched := search.Evaluate(entries, conds)
	log.Info("%d of %d entries matched", len(matched), len(entries))
	return printer.PrintEntries(out, matched, template)
}
