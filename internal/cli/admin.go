package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/library"
	"github.com/tansive/libdesk/pkg/api"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage books, authors, users, loans and penalties",
	Long: `Administrative commands. The backend only accepts them from accounts with
the ADMIN role.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := preRunHandlePersistents(cmd, args); err != nil {
			return err
		}
		return current.requireLogin()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// group returns a parent command that only shows help.
func group(use, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(children...)
	return cmd
}

// idCommand builds a command taking a single id argument.
func idCommand(use, short, what string, run func(cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], what)
			if err != nil {
				return err
			}
			return run(cmd, id)
		},
	}
}

// printSaved reports a created or updated record.
func printSaved(cmd *cobra.Command, msg string, v any) error {
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), v)
		return nil
	}
	okLabel.Fprintln(cmd.OutOrStdout(), "✓ "+msg)
	if v == nil {
		return nil
	}
	return printYAML(cmd.OutOrStdout(), v)
}

func deleted(cmd *cobra.Command, what string, id int64) {
	success(cmd, fmt.Sprintf("Deleted %s #%d", what, id), map[string]any{"id": id})
}

// Books

func addBookFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Title")
	cmd.Flags().String("isbn", "", "ISBN")
	cmd.Flags().Int("year", 0, "Publication year")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().Int64("category", 0, "Category id")
	cmd.Flags().Int64Slice("author", nil, "Author id (repeatable)")
	cmd.Flags().Int("copies", -1, "Copies to create with a new book")
}

func bookFromFlags(cmd *cobra.Command) api.BookRequest {
	var req api.BookRequest
	req.Title, _ = cmd.Flags().GetString("title")
	req.ISBN, _ = cmd.Flags().GetString("isbn")
	req.PublicationYear, _ = cmd.Flags().GetInt("year")
	req.Description, _ = cmd.Flags().GetString("description")
	if cat, _ := cmd.Flags().GetInt64("category"); cat > 0 {
		req.CategoryID = &cat
	}
	req.AuthorIDs, _ = cmd.Flags().GetInt64Slice("author")
	if copies, _ := cmd.Flags().GetInt("copies"); copies >= 0 {
		req.InitialCopies = &copies
	}
	return req
}

func newAdminBooksCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List all books, inactive ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := current.library.AdminListBooks(cmd.Context(), pagingFromFlags(cmd))
			if err != nil {
				return err
			}
			return printResult(cmd, page, func(w io.Writer) error {
				return printBooks(w, page)
			})
		},
	}
	addPagingFlags(list)

	create := &cobra.Command{
		Use:   "create",
		Short: "Add a book",
		Long: `Add a book from flags, or every book in a YAML file with -f. Documents in
the file are separated by --- and use the JSON field names (title, isbn,
publicationYear, authorIds, categoryId, initialCopies, description).
{{ .ENV.NAME }} placeholders are filled from the environment.

Examples:
  libdesk admin books create --title Dune --isbn 978-0441013593 --year 1965 --author 7
  libdesk admin books create -f books.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("filename")
			if file == "" {
				book, err := current.library.CreateBook(cmd.Context(), bookFromFlags(cmd))
				if err != nil {
					return err
				}
				return printSaved(cmd, "Book created", book)
			}
			return createBooksFromFile(cmd, file)
		},
	}
	addBookFlags(create)
	create.Flags().StringP("filename", "f", "", "YAML file with one book per document")

	update := idCommand("update ID", "Replace a book's fields", "book id", func(cmd *cobra.Command, id int64) error {
		book, err := current.library.UpdateBook(cmd.Context(), id, bookFromFlags(cmd))
		if err != nil {
			return err
		}
		return printSaved(cmd, "Book updated", book)
	})
	addBookFlags(update)

	del := idCommand("delete ID", "Delete a book", "book id", func(cmd *cobra.Command, id int64) error {
		if err := current.library.DeleteBook(cmd.Context(), id); err != nil {
			return err
		}
		deleted(cmd, "book", id)
		return nil
	})

	return group("books", "Manage books", list, create, update, del)
}

// createBooksFromFile creates every book in file, stopping at the first
// failure.
func createBooksFromFile(cmd *cobra.Command, file string) error {
	recs, err := LoadRecords(file)
	if err != nil {
		return err
	}
	var created []*api.Book
	for i, rec := range recs {
		var req api.BookRequest
		if err := decodeRecord(rec, &req); err != nil {
			return library.ErrInvalidInput.MsgErr(fmt.Sprintf("document %d of %s", i+1, file), err)
		}
		book, err := current.library.CreateBook(cmd.Context(), req)
		if err != nil {
			return err
		}
		created = append(created, book)
	}
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), created)
		return nil
	}
	for _, b := range created {
		if b != nil {
			okLabel.Fprintf(cmd.OutOrStdout(), "✓ Book #%d created: %s\n", b.ID, b.Title)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d book(s) created\n", len(created))
	return nil
}

// Authors

func authorFromFlags(cmd *cobra.Command) api.AuthorRequest {
	var req api.AuthorRequest
	req.FirstName, _ = cmd.Flags().GetString("first-name")
	req.LastName, _ = cmd.Flags().GetString("last-name")
	return req
}

func addAuthorFlags(cmd *cobra.Command) {
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
}

func newAdminAuthorsCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := current.library.ListAuthors(cmd.Context(), pagingFromFlags(cmd))
			if err != nil {
				return err
			}
			return printResult(cmd, page, func(w io.Writer) error {
				t := newTable(w, "id", "name")
				for _, a := range page.Content {
					t.row(strconv.FormatInt(a.ID, 10), library.FormatAuthors([]api.Author{a}))
				}
				if err := t.flush(); err != nil {
					return err
				}
				pageFooter(w, len(page.Content), page.TotalElements, page.Number, page.TotalPages)
				return nil
			})
		},
	}
	addPagingFlags(list)

	create := &cobra.Command{
		Use:   "create",
		Short: "Add an author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := current.library.CreateAuthor(cmd.Context(), authorFromFlags(cmd))
			if err != nil {
				return err
			}
			return printSaved(cmd, "Author created", a)
		},
	}
	addAuthorFlags(create)

	update := idCommand("update ID", "Rename an author", "author id", func(cmd *cobra.Command, id int64) error {
		a, err := current.library.UpdateAuthor(cmd.Context(), id, authorFromFlags(cmd))
		if err != nil {
			return err
		}
		return printSaved(cmd, "Author updated", a)
	})
	addAuthorFlags(update)

	del := idCommand("delete ID", "Delete an author", "author id", func(cmd *cobra.Command, id int64) error {
		if err := current.library.DeleteAuthor(cmd.Context(), id); err != nil {
			return err
		}
		deleted(cmd, "author", id)
		return nil
	})

	return group("authors", "Manage authors", list, create, update, del)
}

// Users

func newAdminUsersCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := library.UserQuery{Paging: pagingFromFlags(cmd)}
			q.Role, _ = cmd.Flags().GetString("role")
			q.Status, _ = cmd.Flags().GetString("status")
			q.Search, _ = cmd.Flags().GetString("search")
			page, err := current.library.ListUsers(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResult(cmd, page, func(w io.Writer) error {
				t := newTable(w, "id", "email", "name", "role", "status", "created")
				for _, u := range page.Content {
					name := library.FullName(&api.UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName})
					t.row(strconv.FormatInt(u.ID, 10), u.Email, name, title(u.Role), title(u.Status), library.FormatDate(u.CreatedAt))
				}
				if err := t.flush(); err != nil {
					return err
				}
				pageFooter(w, len(page.Content), page.TotalElements, page.Number, page.TotalPages)
				return nil
			})
		},
	}
	addPagingFlags(list)
	list.Flags().String("role", "", "ADMIN or READER")
	list.Flags().String("status", "", "ACTIVE or BLOCKED")
	list.Flags().String("search", "", "Email or name contains")

	get := idCommand("get ID", "Show an account", "user id", func(cmd *cobra.Command, id int64) error {
		u, err := current.library.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printResult(cmd, u, func(w io.Writer) error {
			return printYAML(w, u)
		})
	})

	update := idCommand("update ID", "Edit an account's names, email, role or status", "user id", func(cmd *cobra.Command, id int64) error {
		u, err := current.library.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		req := api.UserUpdate{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: u.Role, Status: u.Status}
		// unset flags keep the stored values
		for flag, field := range map[string]*string{
			"first-name": &req.FirstName,
			"last-name":  &req.LastName,
			"email":      &req.Email,
			"role":       &req.Role,
			"status":     &req.Status,
		} {
			if cmd.Flags().Changed(flag) {
				*field, _ = cmd.Flags().GetString(flag)
			}
		}
		saved, err := current.library.UpdateUser(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		return printSaved(cmd, fmt.Sprintf("User #%d updated", id), saved)
	})
	update.Flags().String("first-name", "", "First name")
	update.Flags().String("last-name", "", "Last name")
	update.Flags().String("email", "", "Email address")
	update.Flags().String("role", "", "ADMIN or READER")
	update.Flags().String("status", "", "ACTIVE or BLOCKED")

	block := idCommand("block ID", "Block an account", "user id", func(cmd *cobra.Command, id int64) error {
		req := api.UserStatusUpdate{Status: api.StatusBlocked}
		req.BlockedReason, _ = cmd.Flags().GetString("reason")
		req.BlockedUntil, _ = cmd.Flags().GetString("until")
		u, err := current.library.SetUserStatus(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		return printSaved(cmd, fmt.Sprintf("User #%d blocked", id), u)
	})
	block.Flags().String("reason", "", "Reason shown to the reader")
	block.Flags().String("until", "", "Blocked until, ISO date-time")

	unblock := idCommand("unblock ID", "Unblock an account", "user id", func(cmd *cobra.Command, id int64) error {
		u, err := current.library.SetUserStatus(cmd.Context(), id, api.UserStatusUpdate{Status: api.StatusActive})
		if err != nil {
			return err
		}
		return printSaved(cmd, fmt.Sprintf("User #%d unblocked", id), u)
	})

	reset := idCommand("reset-password ID", "Give an account a temporary password", "user id", func(cmd *cobra.Command, id int64) error {
		r, err := current.library.ResetUserPassword(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), r)
			return nil
		}
		okLabel.Fprintf(cmd.OutOrStdout(), "✓ Password of user #%d reset\n", id)
		if r != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Temporary password: %s\n", r.TemporaryPassword)
		}
		return nil
	})

	del := idCommand("delete ID", "Delete an account", "user id", func(cmd *cobra.Command, id int64) error {
		if err := current.library.DeleteUser(cmd.Context(), id); err != nil {
			return err
		}
		deleted(cmd, "user", id)
		return nil
	})

	return group("users", "Manage accounts", list, get, update, block, unblock, reset, del)
}

// Loans

func newAdminLoansCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List every loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := current.library.ListAllLoans(cmd.Context(), pagingFromFlags(cmd))
			if err != nil {
				return err
			}
			return printResult(cmd, page, func(w io.Writer) error {
				return printLoans(w, page, true)
			})
		},
	}
	addPagingFlags(list)

	get := idCommand("get ID", "Show a loan", "loan id", func(cmd *cobra.Command, id int64) error {
		l, err := current.library.GetLoan(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printResult(cmd, l, func(w io.Writer) error {
			return printYAML(w, l)
		})
	})

	create := &cobra.Command{
		Use:   "create",
		Short: "Lend a copy to a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req api.LoanCreate
			req.UserID, _ = cmd.Flags().GetInt64("user")
			req.BookCopyID, _ = cmd.Flags().GetInt64("copy")
			req.DueDate, _ = cmd.Flags().GetString("due")
			l, err := current.library.CreateLoan(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printLoan(cmd, "Loan created", l)
		},
	}
	create.Flags().Int64("user", 0, "User id")
	create.Flags().Int64("copy", 0, "Book copy id")
	create.Flags().String("due", "", "Due date, YYYY-MM-DD")

	update := idCommand("update ID", "Change a loan's status or dates", "loan id", func(cmd *cobra.Command, id int64) error {
		var req api.LoanUpdate
		req.Status, _ = cmd.Flags().GetString("status")
		req.DueDate, _ = cmd.Flags().GetString("due")
		req.ReturnDate, _ = cmd.Flags().GetString("returned")
		l, err := current.library.UpdateLoan(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		return printLoan(cmd, "Loan updated", l)
	})
	update.Flags().String("status", "", "ACTIVE, OVERDUE, RETURN_REQUESTED, RETURN_REJECTED, RETURNED or LOST")
	update.Flags().String("due", "", "Due date, YYYY-MM-DD")
	update.Flags().String("returned", "", "Return date, YYYY-MM-DD")

	accept := idCommand("accept-return ID", "Accept a requested return", "loan id", func(cmd *cobra.Command, id int64) error {
		l, err := current.library.AcceptReturn(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printLoan(cmd, "Return accepted", l)
	})

	reject := idCommand("reject-return ID", "Reject a requested return", "loan id", func(cmd *cobra.Command, id int64) error {
		l, err := current.library.RejectReturn(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printLoan(cmd, "Return rejected", l)
	})

	del := idCommand("delete ID", "Delete a loan", "loan id", func(cmd *cobra.Command, id int64) error {
		if err := current.library.DeleteLoan(cmd.Context(), id); err != nil {
			return err
		}
		deleted(cmd, "loan", id)
		return nil
	})

	return group("loans", "Manage loans", list, get, create, update, accept, reject, del)
}

// Penalties

func newAdminPenaltiesCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List penalties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := library.PenaltyQuery{Paging: pagingFromFlags(cmd)}
			q.Status, _ = cmd.Flags().GetString("status")
			q.UserID, _ = cmd.Flags().GetInt64("user")
			page, err := current.library.ListPenalties(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResult(cmd, page, func(w io.Writer) error {
				t := newTable(w, "id", "reader", "loan", "amount", "status", "reason", "issued")
				for _, p := range page.Content {
					reader := library.FullName(p.User)
					if p.User == nil && p.UserID > 0 {
						reader = "#" + strconv.FormatInt(p.UserID, 10)
					}
					loan := library.Placeholder
					if p.LoanID > 0 {
						loan = strconv.FormatInt(p.LoanID, 10)
					}
					issued := p.IssuedAt
					if issued == "" {
						issued = p.CreatedAt
					}
					t.row(strconv.FormatInt(p.ID, 10), reader, loan, strconv.FormatFloat(p.Amount, 'f', 2, 64),
						title(p.Status), p.Reason, library.FormatDate(issued))
				}
				if err := t.flush(); err != nil {
					return err
				}
				pageFooter(w, len(page.Content), page.TotalElements, page.Number, page.TotalPages)
				return nil
			})
		},
	}
	addPagingFlags(list)
	list.Flags().String("status", "", "OPEN, PAID or CANCELLED")
	list.Flags().Int64("user", 0, "Only this user's penalties")

	create := &cobra.Command{
		Use:   "create",
		Short: "Issue a penalty for a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req api.PenaltyRequest
			req.UserID, _ = cmd.Flags().GetInt64("user")
			req.LoanID, _ = cmd.Flags().GetInt64("loan")
			req.Amount, _ = cmd.Flags().GetFloat64("amount")
			req.Reason, _ = cmd.Flags().GetString("reason")
			p, err := current.library.CreatePenalty(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printSaved(cmd, "Penalty issued", p)
		},
	}
	create.Flags().Int64("user", 0, "User id")
	create.Flags().Int64("loan", 0, "Loan id")
	create.Flags().Float64("amount", 0, "Amount, e.g. 10.50")
	create.Flags().String("reason", "", "Reason (default \""+library.DefaultPenaltyReason+"\")")

	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set a penalty to OPEN, PAID or CANCELLED",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "penalty id")
			if err != nil {
				return err
			}
			p, err := current.library.SetPenaltyStatus(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printSaved(cmd, "Penalty updated", p)
		},
	}

	paid := idCommand("paid ID", "Mark a penalty paid", "penalty id", func(cmd *cobra.Command, id int64) error {
		p, err := current.library.MarkPenaltyPaid(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printSaved(cmd, "Penalty marked paid", p)
	})

	del := idCommand("delete ID", "Delete a penalty", "penalty id", func(cmd *cobra.Command, id int64) error {
		if err := current.library.DeletePenalty(cmd.Context(), id); err != nil {
			return err
		}
		deleted(cmd, "penalty", id)
		return nil
	})

	return group("penalties", "Manage penalties", list, create, status, paid, del)
}

func init() {
	adminCmd.AddCommand(
		newAdminBooksCmd(),
		newAdminAuthorsCmd(),
		newAdminUsersCmd(),
		newAdminLoansCmd(),
		newAdminPenaltiesCmd(),
	)
	rootCmd.AddCommand(adminCmd)
}
