package library

import (
	"strings"
	"time"

	"github.com/tansive/libdesk/pkg/api"
)

// Placeholder is shown for missing values.
const Placeholder = "—"

// FormatAuthors joins author names as "First Last, ...", falling back to the
// single name field.
func FormatAuthors(authors []api.Author) string {
	var parts []string
	for _, a := range authors {
		full := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
		if full == "" {
			full = strings.TrimSpace(a.Name)
		}
		if full != "" {
			parts = append(parts, full)
		}
	}
	if len(parts) == 0 {
		return Placeholder
	}
	return strings.Join(parts, ", ")
}

// FullName renders a user summary.
func FullName(u *api.UserSummary) string {
	if u == nil {
		return Placeholder
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return "#" + itoa(u.ID)
	}
	return full
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// FormatDate shortens an ISO date or date-time to its date. Values that do
// not parse are returned as given.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// LoanTitle is the title of the book lent, or a placeholder.
func LoanTitle(l api.Loan) string {
	if l.BookCopy == nil || l.BookCopy.Book == nil || l.BookCopy.Book.Title == "" {
		return Placeholder
	}
	return l.BookCopy.Book.Title
}
