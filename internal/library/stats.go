package library

import (
	"context"
	"net/http"
	"time"

	"github.com/tansive/libdesk/pkg/api"
)

// DateLayout is the ISO date format the stats endpoints accept.
const DateLayout = "2006-01-02"

// DefaultRangeDays is the length of the default stats window, today included.
const DefaultRangeDays = 30

// Range is an inclusive date window for statistics.
type Range struct {
	From string `schema:"from"`
	To   string `schema:"to"`
}

// DefaultRange covers the last DefaultRangeDays days ending today.
func (c *Client) DefaultRange() Range {
	to := c.now()
	from := to.AddDate(0, 0, -(DefaultRangeDays - 1))
	return Range{From: from.Format(DateLayout), To: to.Format(DateLayout)}
}

// ParseRange fills the empty ends of r from the default range and checks
// both dates.
func (c *Client) ParseRange(r Range) (Range, error) {
	def := c.DefaultRange()
	if r.From == "" {
		r.From = def.From
	}
	if r.To == "" {
		r.To = def.To
	}
	from, err := time.Parse(DateLayout, r.From)
	if err != nil {
		return r, ErrInvalidInput.MsgErr("from must be a date like 2006-01-02", err)
	}
	to, err := time.Parse(DateLayout, r.To)
	if err != nil {
		return r, ErrInvalidInput.MsgErr("to must be a date like 2006-01-02", err)
	}
	if to.Before(from) {
		return r, ErrInvalidInput.Msg("from must not be after to")
	}
	return r, nil
}

// StatsSummary returns loan and user totals for the range.
func (c *Client) StatsSummary(ctx context.Context, r Range) (*api.StatsSummary, error) {
	r, err := c.ParseRange(r)
	if err != nil {
		return nil, err
	}
	return fetch[api.StatsSummary](ctx, c, http.MethodGet, "/admin/stats/summary", r, nil)
}

// LoansPerDay returns the daily loan counts for the range.
func (c *Client) LoansPerDay(ctx context.Context, r Range) ([]api.LoansPerDay, error) {
	r, err := c.ParseRange(r)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, http.MethodGet, "/admin/stats/loans-per-day", r, nil)
	if err != nil {
		return nil, err
	}
	var out []api.LoansPerDay
	if resp.Body == nil {
		return out, nil
	}
	if err := decode(resp.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}
