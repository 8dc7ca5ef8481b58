package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/library"
	"github.com/tansive/libdesk/pkg/api"
)

// parseID reads a positive numeric id argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, library.ErrInvalidInput.Msg(what + " must be a positive number, got " + strconv.Quote(arg))
	}
	return id, nil
}

func addPagingFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 0, "Page number, starting at 0")
	cmd.Flags().Int("size", library.DefaultPageSize, "Page size")
}

func pagingFromFlags(cmd *cobra.Command) library.Paging {
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("size")
	return library.Paging{Page: page, Size: size}
}

func availability(b api.Book) string {
	return fmt.Sprintf("%d/%d", b.AvailableCopies, b.TotalCopies)
}

func printBooks(w io.Writer, page *api.Page[api.Book]) error {
	t := newTable(w, "id", "title", "authors", "year", "isbn", "available")
	for _, b := range page.Content {
		year := library.Placeholder
		if b.PublicationYear > 0 {
			year = strconv.Itoa(b.PublicationYear)
		}
		t.row(strconv.FormatInt(b.ID, 10), b.Title, library.FormatAuthors(b.Authors), year, b.ISBN, availability(b))
	}
	if err := t.flush(); err != nil {
		return err
	}
	pageFooter(w, len(page.Content), page.TotalElements, page.Number, page.TotalPages)
	return nil
}

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog books",
	Long: `List catalog books, optionally filtered.

Examples:
  libdesk books list --title dune --available
  libdesk books list --author herbert -j`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := library.BookQuery{Paging: pagingFromFlags(cmd)}
		q.Title, _ = cmd.Flags().GetString("title")
		q.Author, _ = cmd.Flags().GetString("author")
		q.CategoryID, _ = cmd.Flags().GetInt64("category")
		q.AvailableOnly, _ = cmd.Flags().GetBool("available")
		page, err := current.library.ListBooks(cmd.Context(), q)
		if err != nil {
			return err
		}
		return printResult(cmd, page, func(w io.Writer) error {
			return printBooks(w, page)
		})
	},
}

var booksGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "book id")
		if err != nil {
			return err
		}
		book, err := current.library.GetBook(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printResult(cmd, book, func(w io.Writer) error {
			return printYAML(w, book)
		})
	},
}

func init() {
	addPagingFlags(booksListCmd)
	booksListCmd.Flags().String("title", "", "Title contains")
	booksListCmd.Flags().String("author", "", "Author name contains")
	booksListCmd.Flags().Int64("category", 0, "Category id")
	booksListCmd.Flags().Bool("available", false, "Only books with a free copy")

	booksCmd.AddCommand(booksListCmd, booksGetCmd)
	rootCmd.AddCommand(booksCmd)
}
