package library

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/sjson"

	"github.com/tansive/libdesk/pkg/api"
)

// LoanQuery filters the signed-in reader's loans.
type LoanQuery struct {
	Paging
	Status string `schema:"status,omitempty"`
}

// MyLoans returns the signed-in reader's current loans.
func (c *Client) MyLoans(ctx context.Context, q LoanQuery) (*api.Page[api.Loan], error) {
	q.Paging = q.Paging.orDefault()
	return fetchPage[api.Loan](ctx, c, "/me/loans", q)
}

// MyLoanHistory returns the signed-in reader's past loans.
func (c *Client) MyLoanHistory(ctx context.Context, p Paging) (*api.Page[api.Loan], error) {
	return fetchPage[api.Loan](ctx, c, "/me/loans/history", p.orDefault())
}

// Borrow opens a loan on an available copy of the book.
func (c *Client) Borrow(ctx context.Context, bookID int64) (*api.Loan, error) {
	if bookID <= 0 {
		return nil, ErrInvalidInput.Msg("book id must be positive")
	}
	body, err := sjson.SetBytes([]byte(`{}`), "bookId", bookID)
	if err != nil {
		return nil, ErrInvalidInput.Err(err)
	}
	return fetch[api.Loan](ctx, c, http.MethodPost, "/loans", nil, json.RawMessage(body))
}

// ExtendLoan pushes the due date of a loan back by days.
func (c *Client) ExtendLoan(ctx context.Context, loanID int64, days int) (*api.Loan, error) {
	if days <= 0 {
		return nil, ErrInvalidInput.Msg("additional days must be positive")
	}
	body, err := sjson.SetBytes([]byte(`{}`), "additionalDays", days)
	if err != nil {
		return nil, ErrInvalidInput.Err(err)
	}
	return fetch[api.Loan](ctx, c, http.MethodPost, "/loans/"+itoa(loanID)+"/extend", nil, json.RawMessage(body))
}

// ReturnLoan asks for a loan to be returned; an administrator accepts or
// rejects the request.
func (c *Client) ReturnLoan(ctx context.Context, loanID int64) (*api.Loan, error) {
	return fetch[api.Loan](ctx, c, http.MethodPost, "/loans/"+itoa(loanID)+"/return", nil, nil)
}
