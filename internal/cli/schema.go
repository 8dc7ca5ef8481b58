package cli

import (
	"cmp"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/schema"
)

// loadSchema returns the API document or ErrUnavailable.
func loadSchema(cmd *cobra.Command, force bool) (*schema.Document, error) {
	doc := current.schema.Fetch(cmd.Context(), force)
	if doc == nil {
		return nil, schema.ErrUnavailable.Msg("could not load the API document from " + current.schema.Path())
	}
	return doc, nil
}

type schemaView struct {
	Source     string `json:"source"`
	Title      string `json:"title,omitempty"`
	Version    string `json:"version,omitempty"`
	Format     string `json:"format"`
	Paths      int    `json:"paths"`
	Operations int    `json:"operations"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect the backend's API document",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var schemaFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the API document and summarize it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		doc, err := loadSchema(cmd, force)
		if err != nil {
			return err
		}
		v := schemaView{
			Source:     current.schema.Path(),
			Title:      doc.Info.Title,
			Version:    doc.Info.Version,
			Format:     cmp.Or(doc.OpenAPI, doc.Swagger),
			Paths:      len(doc.Paths),
			Operations: doc.OperationCount(),
		}
		return printResult(cmd, v, func(w io.Writer) error {
			t := newTable(w)
			t.row("Source:", v.Source)
			t.row("Title:", cmp.Or(v.Title, "-"))
			t.row("Version:", cmp.Or(v.Version, "-"))
			t.row("Format:", v.Format)
			t.row("Paths:", strconv.Itoa(v.Paths))
			t.row("Operations:", strconv.Itoa(v.Operations))
			return t.flush()
		})
	},
}

var schemaPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the declared paths and their methods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadSchema(cmd, false)
		if err != nil {
			return err
		}
		return printResult(cmd, doc.Paths, func(w io.Writer) error {
			t := newTable(w, "path", "methods")
			for _, p := range doc.Paths {
				methods := make([]string, len(p.Operations))
				for i, op := range p.Operations {
					methods[i] = op.Verb.String()
				}
				t.row(p.Path, strings.Join(methods, " "))
			}
			return t.flush()
		})
	},
}

var schemaResourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Show the paths guessed for books, members and loans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadSchema(cmd, false)
		if err != nil {
			return err
		}
		guessed := schema.GuessResourcePaths(doc)
		return printResult(cmd, guessed, func(w io.Writer) error {
			t := newTable(w, "resource", "path")
			for _, rk := range schema.ResourceKeywords {
				p := guessed.Get(rk.Resource)
				if p == "" {
					p = "-"
				}
				t.row(string(rk.Resource), p)
			}
			return t.flush()
		})
	},
}

func init() {
	schemaFetchCmd.Flags().Bool("force", false, "Ignore the cached document")

	schemaCmd.AddCommand(schemaFetchCmd, schemaPathsCmd, schemaResourcesCmd)
	rootCmd.AddCommand(schemaCmd)
}
