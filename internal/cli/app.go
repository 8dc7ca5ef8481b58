package cli

import (
	"net/http"

	"github.com/tansive/libdesk/internal/common/httpclient"
	"github.com/tansive/libdesk/internal/config"
	"github.com/tansive/libdesk/internal/explorer"
	"github.com/tansive/libdesk/internal/library"
	"github.com/tansive/libdesk/internal/schema"
	"github.com/tansive/libdesk/internal/session"
)

// transport replaces the HTTP transport; tests point it at an in-process
// backend.
var transport http.RoundTripper

// app holds the clients built for one command invocation.
type app struct {
	cfg     *config.Config
	apiURL  string
	session *session.Session
	client  *httpclient.Dispatcher
	auth    *session.Authenticator
	schema  *schema.Cache
	library *library.Client
}

var current *app

func newApp(cfg *config.Config, apiURL string) *app {
	a := &app{cfg: cfg}
	if apiURL != "" {
		a.apiURL = config.NormalizeAPIURL(apiURL)
	}
	a.session = session.New(session.NewFileStore(cfg.StatePath()))

	var opts []httpclient.Option
	if cfg.RequestTimeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.RequestTimeout))
	}
	if transport != nil {
		opts = append(opts, httpclient.WithTransport(transport))
	}
	a.client = httpclient.NewDispatcher(a, opts...)
	a.auth = session.NewAuthenticator(a.client, a.session, session.Paths{
		Login:          cfg.AuthLoginPath,
		Register:       cfg.AuthRegisterPath,
		ChangePassword: cfg.ChangePasswordPath,
	})
	a.schema = schema.NewCache(a.client, cfg.OpenAPIPath, schema.WithTTL(cfg.SchemaTTL))
	a.library = library.New(a.client, library.WithSchema(a.schema), library.WithRouteTable(a.GetRouteTable()))
	return a
}

// GetServerURL returns the --api-url flag, else the persisted override,
// else the configured URL.
func (a *app) GetServerURL() string {
	if a.apiURL != "" {
		return a.apiURL
	}
	if u := a.session.APIURL(); u != "" {
		return u
	}
	return a.cfg.APIURL
}

func (a *app) GetToken() string {
	return a.session.Token()
}

func (a *app) GetRouteTable() *httpclient.RouteTable {
	return a.cfg.RouteTable()
}

func (a *app) explorer() *explorer.Session {
	return explorer.NewSession(a.schema, explorer.NewInvoker(a.client))
}

// requireLogin fails when no usable token is stored.
func (a *app) requireLogin() error {
	if !a.session.IsLoggedIn() {
		return session.ErrNotLoggedIn
	}
	return nil
}
