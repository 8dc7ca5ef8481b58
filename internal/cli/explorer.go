package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/explorer"
	"github.com/tansive/libdesk/internal/schema"
)

// loadExplorer returns an explorer session with the document loaded.
func loadExplorer(cmd *cobra.Command) (*explorer.Session, error) {
	s := current.explorer()
	if s.Load(cmd.Context(), false) != explorer.Ready {
		return nil, schema.ErrUnavailable.Msg("could not load the API document from " + current.schema.Path())
	}
	return s, nil
}

var explorerCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Browse and call the endpoints in the API document",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var explorerListCmd = &cobra.Command{
	Use:   "list [FILTER]",
	Short: "List endpoints, optionally filtered",
	Long: `List endpoints sorted by tag, path and method. FILTER matches the method,
path, summary and tags, ignoring case.

Examples:
  libdesk explorer list
  libdesk explorer list loans`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadExplorer(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			s.SetFilter(args[0])
		}
		eps := s.Endpoints()
		return printResult(cmd, eps, func(w io.Writer) error {
			if len(eps) == 0 {
				fmt.Fprintln(w, "No endpoints match")
				return nil
			}
			t := newTable(w, "method", "path", "tag", "summary")
			for _, ep := range eps {
				tag := ep.FirstTag()
				if tag == "" {
					tag = "-"
				}
				t.row(ep.Method.String(), ep.Path, tag, ep.Summary)
			}
			return t.flush()
		})
	},
}

var explorerCallCmd = &cobra.Command{
	Use:   "call METHOD PATH",
	Short: "Call an endpoint from the API document",
	Long: `Call an endpoint declared in the API document. METHOD and PATH must match
a declared operation. Template segments such as {id} are filled from
--param; without --param the path is sent as declared. GET and DELETE never
send a body.

Examples:
  libdesk explorer call GET /api/books --query "page=0&size=5"
  libdesk explorer call GET /api/books/{id} --param id=7
  libdesk explorer call POST /api/loans --body '{"bookId": 5}'
  libdesk explorer call POST /api/admin/books --body-file book.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := cmd.Flags().GetString("body")
		if file, _ := cmd.Flags().GetString("body-file"); file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("unable to read body file: %w", err)
			}
			body = string(data)
		}
		query, _ := cmd.Flags().GetString("query")
		rawParams, _ := cmd.Flags().GetStringArray("param")
		params, err := parseParams(rawParams)
		if err != nil {
			return err
		}

		s, err := loadExplorer(cmd)
		if err != nil {
			return err
		}
		if _, err := s.Select(strings.ToUpper(args[0]), args[1]); err != nil {
			return err
		}
		res, _, err := s.InvokeWithParams(cmd.Context(), params, body, query)
		if err != nil {
			return err
		}
		return printInvokeResult(cmd, res)
	},
}

// parseParams reads name=value pairs.
func parseParams(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, explorer.ErrInvalidParam.Msg("path parameter must look like name=value, got " + strconv.Quote(kv))
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}

// printInvokeResult shows the response, or the error and its details. A
// failed call exits non-zero.
func printInvokeResult(cmd *cobra.Command, res explorer.Result) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, res)
	} else if !res.Failed() {
		okLabel.Fprintf(out, "HTTP %d\n", res.StatusCode)
		if res.Success != "" {
			fmt.Fprintln(out, res.Success)
		}
	} else {
		errw := cmd.ErrOrStderr()
		if res.StatusCode != 0 {
			errorLabel.Fprintf(errw, "Error: %s (HTTP %d)\n", res.Err, res.StatusCode)
		} else {
			errorLabel.Fprintf(errw, "Error: %s\n", res.Err)
		}
		if res.RawDetails != "" {
			fmt.Fprintln(errw, res.RawDetails)
		}
	}
	if res.Failed() {
		return ErrAlreadyHandled
	}
	return nil
}

func init() {
	explorerCallCmd.Flags().String("body", "", "JSON request body")
	explorerCallCmd.Flags().String("body-file", "", "Read the JSON request body from a file")
	explorerCallCmd.Flags().String("query", "", "Query string, without the leading ?")
	explorerCallCmd.Flags().StringArray("param", nil, "Path parameter as name=value (repeatable)")

	explorerCmd.AddCommand(explorerListCmd, explorerCallCmd)
	rootCmd.AddCommand(explorerCmd)
}
