package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"
)

var titleCaser = cases.Title(language.English)

// title turns an enum such as RETURN_REQUESTED into "Return Requested".
func title(s string) string {
	if s == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(s), "_", " "))
}

// printResult prints v as JSON with --json, else runs human.
func printResult(cmd *cobra.Command, v any, human func(w io.Writer) error) error {
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), v)
		return nil
	}
	return human(cmd.OutOrStdout())
}

// printYAML prints v as YAML, going through its JSON field names.
func printYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to format YAML output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// table writes aligned columns.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	if len(headers) > 0 {
		upper := make([]string, len(headers))
		for i, h := range headers {
			upper[i] = strings.ToUpper(h)
		}
		t.row(upper...)
	}
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

// pageFooter summarizes a page of results.
func pageFooter(w io.Writer, shown int, total int64, page, pages int) {
	if pages <= 1 {
		fmt.Fprintf(w, "\n%d of %d\n", shown, total)
		return
	}
	fmt.Fprintf(w, "\n%d of %d (page %d of %d)\n", shown, total, page+1, pages)
}

// success prints a confirmation, or a JSON status object with --json.
func success(cmd *cobra.Command, msg string, extra map[string]any) {
	if jsonOutput {
		kv := map[string]any{"status": "success", "message": msg}
		for k, v := range extra {
			kv[k] = v
		}
		printJSON(cmd.OutOrStdout(), kv)
		return
	}
	okLabel.Fprintln(cmd.OutOrStdout(), "✓ "+msg)
}
