package explorer

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tansive/libdesk/internal/schema"
)

// State is the state of an explorer session.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Unavailable
	EndpointSelected
	Invoking
	InvokeSucceeded
	InvokeFailed
)

var stateNames = map[State]string{
	Idle:             "idle",
	Loading:          "loading",
	Ready:            "ready",
	Unavailable:      "unavailable",
	EndpointSelected: "endpoint-selected",
	Invoking:         "invoking",
	InvokeSucceeded:  "invoke-succeeded",
	InvokeFailed:     "invoke-failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// hasSchema reports whether a document is loaded in this state.
func (s State) hasSchema() bool {
	switch s {
	case Ready, EndpointSelected, Invoking, InvokeSucceeded, InvokeFailed:
		return true
	}
	return false
}

// SchemaSource supplies the API document.
type SchemaSource interface {
	Fetch(ctx context.Context, force bool) *schema.Document
}

// Session drives one explorer: load the document, filter and select an
// endpoint, invoke it. Each load and each invocation carries a generation;
// a result belonging to an older generation is discarded.
type Session struct {
	source  SchemaSource
	invoker *Invoker

	mu         sync.Mutex
	state      State
	doc        *schema.Document
	endpoints  []Endpoint
	filter     string
	selected   *Endpoint
	result     *Result
	generation uint64
}

// NewSession returns an idle session.
func NewSession(source SchemaSource, invoker *Invoker) *Session {
	return &Session{source: source, invoker: invoker, state: Idle}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load fetches the document, bypassing the cache when force is set, and
// moves to Ready or Unavailable. It may be called from any state.
func (s *Session) Load(ctx context.Context, force bool) State {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = Loading
	s.mu.Unlock()

	doc := s.source.Fetch(ctx, force)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		log.Ctx(ctx).Debug().Msg("discarding superseded schema load")
		return s.state
	}
	s.doc = doc
	s.selected = nil
	s.result = nil
	if doc == nil {
		s.endpoints = nil
		s.state = Unavailable
		return s.state
	}
	s.endpoints = ListEndpoints(doc)
	s.state = Ready
	return s.state
}

// Refresh force-reloads the document.
func (s *Session) Refresh(ctx context.Context) State {
	return s.Load(ctx, true)
}

// Document returns the loaded document, or nil.
func (s *Session) Document() *schema.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// SetFilter sets the filter text. The state does not change.
func (s *Session) SetFilter(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = query
}

// Filter returns the filter text.
func (s *Session) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Endpoints returns the endpoints matching the filter.
func (s *Session) Endpoints() []Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(FilterEndpoints(s.endpoints, s.filter))
}

// Select chooses the endpoint with method and path. Any invocation in
// flight is superseded.
func (s *Session) Select(method, path string) (Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.hasSchema() {
		return Endpoint{}, ErrNotReady.Msg("cannot select an endpoint while " + s.state.String())
	}
	ep, ok := FindEndpoint(s.endpoints, method, path)
	if !ok {
		return Endpoint{}, ErrUnknownEndpoint.Msg("endpoint not found in schema: " + method + " " + path)
	}
	s.generation++
	s.selected = &ep
	s.result = nil
	s.state = EndpointSelected
	return ep, nil
}

// Selected returns the selected endpoint, or nil.
func (s *Session) Selected() *Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	ep := *s.selected
	return &ep
}

// Invoke calls the selected endpoint. The returned flag is false when the
// result was superseded by a later Invoke, Select or Load and was therefore
// not recorded.
func (s *Session) Invoke(ctx context.Context, rawBody, rawQuery string) (Result, bool, error) {
	return s.InvokeWithParams(ctx, nil, rawBody, rawQuery)
}

// InvokeWithParams is Invoke with the path's {name} segments substituted
// from params. With no params the declared path is sent as is; a template
// parameter missing from non-empty params gives a validation result.
func (s *Session) InvokeWithParams(ctx context.Context, params map[string]string, rawBody, rawQuery string) (Result, bool, error) {
	s.mu.Lock()
	if s.selected == nil || !s.state.hasSchema() {
		s.mu.Unlock()
		return Result{}, false, ErrNoSelection
	}
	ep := *s.selected
	s.generation++
	gen := s.generation
	s.state = Invoking
	s.mu.Unlock()

	var res Result
	if len(params) > 0 {
		if path, err := ep.Expand(params); err != nil {
			res = Result{Err: err.Error(), Validation: true}
		} else {
			ep.Path = path
		}
	}
	if !res.Failed() {
		res = s.invoker.Invoke(ctx, ep, rawBody, rawQuery)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		log.Ctx(ctx).Debug().Str("endpoint", ep.String()).Msg("discarding stale explorer result")
		return res, false, nil
	}
	s.result = &res
	if res.Failed() {
		s.state = InvokeFailed
	} else {
		s.state = InvokeSucceeded
	}
	return res, true, nil
}

// Result returns the recorded result of the last invocation, or nil.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Dismiss clears the last result and returns to EndpointSelected.
func (s *Session) Dismiss() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InvokeSucceeded && s.state != InvokeFailed {
		return ErrInvalidTransition.Msg("nothing to dismiss while " + s.state.String())
	}
	s.result = nil
	s.state = EndpointSelected
	return nil
}
