// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/bascanada/seclog/pkg/log/printer"
	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/ty"
	"github.com/spf13/cobra"
)

var (
	caret        int
	suggestLocal bool
)

var suggestCommand = &cobra.Command{
	Use:   "suggest [text]",
	Short: "Print the suggestions offered for a partially typed clause",
	Long: `Print the candidates the search bar offers for the token under the caret,
the first one being the one Tab would accept.

Examples:
  seclog suggest "sou"
  seclog suggest "protocol in TCP, "
  seclog suggest "source_ip = 10" --caret 3`,
	Args:   cobra.MaximumNArgs(1),
	PreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSuggest(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	suggestCommand.Flags().IntVar(&caret, "caret", -1, "Caret offset in the text, the end when negative")
	suggestCommand.Flags().BoolVar(&suggestLocal, "local", false, "Suggest for a local clause")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}

	text := ""
	if len(args) == 1 {
		text = args[0]
	}
	c := query.Parse(text, "suggest")
	if suggestLocal {
		c.IsLocal = ty.OptWrap(true)
	}

	pos := caret
	if n := utf8.RuneCountInString(text); pos < 0 || pos > n {
		pos = n
	}
	cur := query.Locate(c, pos)

	cands := query.Suggest(c, cur, s.Fields, s.Assets)
	if len(cands) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no suggestion for the %s\n", cur.Position)
		return nil
	}
	return printer.PrintCandidates(cmd.OutOrStdout(), cands, query.ActiveIndex(cands, ""))
}
