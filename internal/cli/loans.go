package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/library"
	"github.com/tansive/libdesk/pkg/api"
)

func printLoans(w io.Writer, page *api.Page[api.Loan], withReader bool) error {
	headers := []string{"id", "title", "copy", "loaned", "due", "returned", "status", "ext"}
	if withReader {
		headers = slices.Insert(headers, 1, "reader")
	}
	t := newTable(w, headers...)
	for _, l := range page.Content {
		copyCode := library.Placeholder
		if l.BookCopy != nil && l.BookCopy.InventoryCode != "" {
			copyCode = l.BookCopy.InventoryCode
		}
		cells := []string{
			strconv.FormatInt(l.ID, 10),
			library.LoanTitle(l),
			copyCode,
			library.FormatDate(l.LoanDate),
			library.FormatDate(l.DueDate),
			library.FormatDate(l.ReturnDate),
			title(l.Status),
			strconv.Itoa(l.ExtensionsCount),
		}
		if withReader {
			cells = slices.Insert(cells, 1, library.FullName(l.User))
		}
		t.row(cells...)
	}
	if err := t.flush(); err != nil {
		return err
	}
	pageFooter(w, len(page.Content), page.TotalElements, page.Number, page.TotalPages)
	return nil
}

func printLoan(cmd *cobra.Command, msg string, loan *api.Loan) error {
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), loan)
		return nil
	}
	okLabel.Fprintln(cmd.OutOrStdout(), "✓ "+msg)
	if loan != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Loan #%d: %s, due %s\n", loan.ID, title(loan.Status), library.FormatDate(loan.DueDate))
	}
	return nil
}

var loansCmd = &cobra.Command{
	Use:   "loans",
	Short: "Your loans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var loansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your current loans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.requireLogin(); err != nil {
			return err
		}
		q := library.LoanQuery{Paging: pagingFromFlags(cmd)}
		q.Status, _ = cmd.Flags().GetString("status")
		page, err := current.library.MyLoans(cmd.Context(), q)
		if err != nil {
			return err
		}
		return printResult(cmd, page, func(w io.Writer) error {
			return printLoans(w, page, false)
		})
	},
}

var loansHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List your past loans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.requireLogin(); err != nil {
			return err
		}
		page, err := current.library.MyLoanHistory(cmd.Context(), pagingFromFlags(cmd))
		if err != nil {
			return err
		}
		return printResult(cmd, page, func(w io.Writer) error {
			return printLoans(w, page, false)
		})
	},
}

var loansBorrowCmd = &cobra.Command{
	Use:   "borrow BOOK_ID",
	Short: "Borrow a copy of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "book id")
		if err != nil {
			return err
		}
		loan, err := current.library.Borrow(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printLoan(cmd, "Borrowed", loan)
	},
}

var loansExtendCmd = &cobra.Command{
	Use:   "extend LOAN_ID",
	Short: "Extend a loan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "loan id")
		if err != nil {
			return err
		}
		days, _ := cmd.Flags().GetInt("days")
		loan, err := current.library.ExtendLoan(cmd.Context(), id, days)
		if err != nil {
			return err
		}
		return printLoan(cmd, "Loan extended", loan)
	},
}

var loansReturnCmd = &cobra.Command{
	Use:   "return LOAN_ID",
	Short: "Ask to return a loan",
	Long:  `Ask to return a loan. The loan stays open until an administrator accepts the return.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "loan id")
		if err != nil {
			return err
		}
		loan, err := current.library.ReturnLoan(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printLoan(cmd, "Return requested", loan)
	},
}

func init() {
	addPagingFlags(loansListCmd)
	loansListCmd.Flags().String("status", "", "Only loans in this status")
	addPagingFlags(loansHistoryCmd)
	loansExtendCmd.Flags().Int("days", 14, "Days to add to the due date")

	loansCmd.AddCommand(loansListCmd, loansHistoryCmd, loansBorrowCmd, loansExtendCmd, loansReturnCmd)
	rootCmd.AddCommand(loansCmd)
}
