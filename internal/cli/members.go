package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Library members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var membersListCmd = &cobra.Command{
	Use:   "list [FILTER]",
	Short: "List members from whichever endpoint serves them",
	Long: `List members. The path guessed from the API document is tried first, then
/api/admin/users, /admin/users and /users. Columns follow the first row.
FILTER keeps rows whose JSON contains it, ignoring case.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := current.library.ListMembers(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 1 {
			m = m.Filter(args[0])
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), map[string]any{
				"endpoint": m.Strategy.Path,
				"rows":     m.Rows(),
			})
			return nil
		}
		return printMembers(cmd.OutOrStdout(), m.Strategy.Path, m.Columns(), m.Len(), m.Cell)
	},
}

func printMembers(w io.Writer, endpoint string, cols []string, n int, cell func(int, string) string) error {
	fmt.Fprintf(w, "Endpoint: %s\n\n", endpoint)
	if n == 0 {
		fmt.Fprintln(w, "No members")
		return nil
	}
	t := newTable(w, cols...)
	for i := 0; i < n; i++ {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = cell(i, c)
		}
		t.row(cells...)
	}
	return t.flush()
}

func init() {
	membersCmd.AddCommand(membersListCmd)
	rootCmd.AddCommand(membersCmd)
}
