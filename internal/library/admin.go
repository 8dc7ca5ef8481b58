package library

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/tansive/libdesk/pkg/api"
)

func (c *Client) remove(ctx context.Context, path string) error {
	_, err := c.call(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// AdminListBooks returns a page of books including inactive ones.
func (c *Client) AdminListBooks(ctx context.Context, p Paging) (*api.Page[api.Book], error) {
	return fetchPage[api.Book](ctx, c, "/admin/books", p.orDefault())
}

func (c *Client) CreateBook(ctx context.Context, req api.BookRequest) (*api.Book, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.ISBN = strings.TrimSpace(req.ISBN)
	if err := checkInput(req); err != nil {
		return nil, err
	}
	return fetch[api.Book](ctx, c, http.MethodPost, "/admin/books", nil, req)
}

func (c *Client) UpdateBook(ctx context.Context, id int64, req api.BookRequest) (*api.Book, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.ISBN = strings.TrimSpace(req.ISBN)
	if err := checkInput(req); err != nil {
		return nil, err
	}
	return fetch[api.Book](ctx, c, http.MethodPut, "/admin/books/"+itoa(id), nil, req)
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.remove(ctx, "/admin/books/"+itoa(id))
}

// ListAuthors returns a page of authors.
func (c *Client) ListAuthors(ctx context.Context, p Paging) (*api.Page[api.Author], error) {
	return fetchPage[api.Author](ctx, c, "/admin/authors", p.orDefault())
}

func (c *Client) CreateAuthor(ctx context.Context, req api.AuthorRequest) (*api.Author, error) {
	if err := checkInput(req); err != nil {
		return nil, err
	}
	return fetch[api.Author](ctx, c, http.MethodPost, "/admin/authors", nil, req)
}

func (c *Client) UpdateAuthor(ctx context.Context, id int64, req api.AuthorRequest) (*api.Author, error) {
	if err := checkInput(req); err != nil {
		return nil, err
	}
	return fetch[api.Author](ctx, c, http.MethodPut, "/admin/authors/"+itoa(id), nil, req)
}

func (c *Client) DeleteAuthor(ctx context.Context, id int64) error {
	return c.remove(ctx, "/admin/authors/"+itoa(id))
}

// UserQuery filters the user list.
type UserQuery struct {
	Paging
	Role   string `schema:"role,omitempty"`
	Status string `schema:"status,omitempty"`
	Search string `schema:"search,omitempty"`
}

// ListUsers returns a page of accounts.
func (c *Client) ListUsers(ctx context.Context, q UserQuery) (*api.Page[api.User], error) {
	q.Paging = q.Paging.orDefault()
	q.Role = strings.ToUpper(strings.TrimSpace(q.Role))
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	q.Search = strings.TrimSpace(q.Search)
	return fetchPage[api.User](ctx, c, "/admin/users", q)
}

func (c *Client) GetUser(ctx context.Context, id int64) (*api.User, error) {
	return fetch[api.User](ctx, c, http.MethodGet, "/admin/users/"+itoa(id), nil, nil)
}

// UpdateUser replaces an account's names, email, role and status.
func (c *Client) UpdateUser(ctx context.Context, id int64, req api.UserUpdate) (*api.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if err := checkInput(req); err != nil {
		return nil, err
	}
	return fetch[api.User](ctx, c, http.MethodPut, "/admin/users/"+itoa(id), nil, req)
}

// SetUserStatus blocks or unblocks an account.
func (c *Client) SetUserStatus(ctx context.Context, id int64, req api.UserStatusUpdate) (*api.User, error) {
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if err := checkInput(req); err != nil {
		return nil, err
	}
	if req.Status == api.StatusActive {
		req.BlockedReason = ""
		req.BlockedUntil = ""
	}
	return fetch[api.User](ctx, c, http.MethodPatch, "/admin/users/"+itoa(id)+"/status", nil, req)
}

// ResetUserPassword replaces the account's password with a temporary one.
func (c *Client) ResetUserPassword(ctx context.Context, id int64) (*api.PasswordReset, error) {
	return fetch[api.PasswordReset](ctx, c, http.MethodPost, "/admin/users/"+itoa(id)+"/reset-password", nil, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.remove(ctx, "/admin/users/"+itoa(id))
}

// ListAllLoans returns every loan in the library.
func (c *Client) ListAllLoans(ctx context.Context, p Paging) (*api.Page[api.Loan], error) {
	return fetchPage[api.Loan](ctx, c, "/admin/loans", p.orDefault())
}

func (c *Client) GetLoan(ctx context.Context, id int64) (*api.Loan, error) {
	return fetch[api.Loan](ctx, c, http.MethodGet, "/admin/loans/"+itoa(id), nil, nil)
}

// CreateLoan lends a copy to a user. The backend takes the fields as query
// parameters.
func (c *Client) CreateLoan(ctx context.Context, req api.LoanCreate) (*api.Loan, error) {
	if err := checkInput(req); err != nil {
		return nil, err
	}
	req.DueDate = dateTime(req.DueDate)
	return fetch[api.Loan](ctx, c, http.MethodPost, "/admin/loans", req, nil)
}

// UpdateLoan changes the status or dates of a loan. Empty fields are left
// untouched.
func (c *Client) UpdateLoan(ctx context.Context, id int64, req api.LoanUpdate) (*api.Loan, error) {
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if err := checkInput(req); err != nil {
		return nil, err
	}
	req.DueDate = dateTime(req.DueDate)
	req.ReturnDate = dateTime(req.ReturnDate)
	return fetch[api.Loan](ctx, c, http.MethodPut, "/admin/loans/"+itoa(id), req, nil)
}

func (c *Client) DeleteLoan(ctx context.Context, id int64) error {
	return c.remove(ctx, "/admin/loans/"+itoa(id))
}

// AcceptReturn closes a loan whose return was requested.
func (c *Client) AcceptReturn(ctx context.Context, id int64) (*api.Loan, error) {
	return fetch[api.Loan](ctx, c, http.MethodPost, "/admin/loans/"+itoa(id)+"/return/accept", nil, nil)
}

// RejectReturn sends a requested return back to the reader.
func (c *Client) RejectReturn(ctx context.Context, id int64) (*api.Loan, error) {
	return fetch[api.Loan](ctx, c, http.MethodPost, "/admin/loans/"+itoa(id)+"/return/reject", nil, nil)
}

// PenaltyQuery filters the penalty list.
type PenaltyQuery struct {
	Paging
	Status string `schema:"status,omitempty"`
	UserID int64  `schema:"userId,omitempty"`
}

func (c *Client) ListPenalties(ctx context.Context, q PenaltyQuery) (*api.Page[api.Penalty], error) {
	q.Paging = q.Paging.orDefault()
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	return fetchPage[api.Penalty](ctx, c, "/admin/penalties", q)
}

// DefaultPenaltyReason is sent when a penalty is issued without a reason.
const DefaultPenaltyReason = "Administrative penalty"

func (c *Client) CreatePenalty(ctx context.Context, req api.PenaltyRequest) (*api.Penalty, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		req.Reason = DefaultPenaltyReason
	}
	if err := checkInput(req); err != nil {
		return nil, err
	}
	return fetch[api.Penalty](ctx, c, http.MethodPost, "/admin/penalties", nil, req)
}

// SetPenaltyStatus moves a penalty to OPEN, PAID or CANCELLED.
func (c *Client) SetPenaltyStatus(ctx context.Context, id int64, status string) (*api.Penalty, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case api.PenaltyOpen, api.PenaltyPaid, api.PenaltyCancelled:
	default:
		return nil, ErrInvalidInput.Msg("status must be one of OPEN PAID CANCELLED")
	}
	body, err := sjson.SetBytes([]byte(`{}`), "status", status)
	if err != nil {
		return nil, ErrInvalidInput.Err(err)
	}
	return fetch[api.Penalty](ctx, c, http.MethodPatch, "/admin/penalties/"+itoa(id)+"/status", nil, json.RawMessage(body))
}

func (c *Client) MarkPenaltyPaid(ctx context.Context, id int64) (*api.Penalty, error) {
	return fetch[api.Penalty](ctx, c, http.MethodPost, "/admin/penalties/"+itoa(id)+"/paid", nil, nil)
}

func (c *Client) DeletePenalty(ctx context.Context, id int64) error {
	return c.remove(ctx, "/admin/penalties/"+itoa(id))
}

// dateTime widens a bare date to midnight, the form the backend parses.
func dateTime(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == len(DateLayout) {
		return s + "T00:00:00"
	}
	return s
}
