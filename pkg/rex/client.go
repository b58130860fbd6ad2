// Package rex is a client for the Rex real-estate CRM API.
//
// A Client holds one session: Login stores the token returned by the API and
// every later service call reads it at send time. Services are exposed through
// a fixed registry built from Services.
//
//	c := rex.NewClient()
//	if _, err := c.Login(ctx, email, password); err != nil { ... }
//	listing, err := c.Listings().Read(ctx, 68, rex.Params{"fields": []string{"property_core"}})
package rex

import (
	"context"
	"fmt"
	"net/http"
)

// Client is the entry point of the library.
type Client struct {
	Authentication *Authentication

	dispatcher *Dispatcher
	registry   *Registry
	tokens     TokenStore
}

type clientOptions struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenStore
	application string
	userAgent   string
}

// Option configures a Client.
type Option func(*clientOptions)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client used for every call, including its timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = httpClient }
}

// WithTokenStore replaces the in-memory token store.
func WithTokenStore(tokens TokenStore) Option {
	return func(o *clientOptions) { o.tokens = tokens }
}

// WithApplication sets the application name sent on login.
func WithApplication(application string) Option {
	return func(o *clientOptions) { o.application = application }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) { o.userAgent = userAgent }
}

// NewClient creates a client with an empty session.
func NewClient(opts ...Option) *Client {
	o := clientOptions{
		baseURL:     DefaultBaseURL,
		application: DefaultApplication,
		userAgent:   "rex-crm-client",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tokens == nil {
		o.tokens = NewMemoryTokenStore()
	}

	dispatcher := NewDispatcher(o.baseURL, o.httpClient, o.tokens, o.userAgent)
	return &Client{
		Authentication: NewAuthentication(dispatcher, o.tokens, o.application),
		dispatcher:     dispatcher,
		registry:       NewRegistry(dispatcher),
		tokens:         o.tokens,
	}
}

// Login is shorthand for Authentication.Login with the given credentials.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.Authentication.Login(ctx, Credentials{Email: email, Password: password})
}

// Logout ends the session; the token is always cleared.
func (c *Client) Logout(ctx context.Context) error {
	return c.Authentication.Logout(ctx)
}

// Token returns the current session token, or "" when there is none.
func (c *Client) Token() string {
	token, _ := c.tokens.Get()
	return token
}

// HasToken reports whether a session token is held.
func (c *Client) HasToken() bool {
	_, ok := c.tokens.Get()
	return ok
}

// PointToLocation parses a POINT(lat lng) value.
func (c *Client) PointToLocation(raw string) Location {
	return PointToLocation(raw)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.dispatcher.BaseURL()
}

// Services returns the known service names in order.
func (c *Client) Services() []string {
	return c.registry.Names()
}

// Service looks up a service descriptor by name.
func (c *Client) Service(name string) (*Service, bool) {
	return c.registry.Get(name)
}

// MustService is Service for names known at compile time; it panics on unknown names.
func (c *Client) MustService(name string) *Service {
	s, ok := c.registry.Get(name)
	if !ok {
		panic(fmt.Sprintf("rex: unknown service %q", name))
	}
	return s
}

func (c *Client) AccountUsers() *Service      { return c.MustService(ServiceAccountUsers) }
func (c *Client) AdminDepartments() *Service  { return c.MustService(ServiceAdminDepartments) }
func (c *Client) CalendarEvents() *Service    { return c.MustService(ServiceCalendarEvents) }
func (c *Client) Contacts() *Service          { return c.MustService(ServiceContacts) }
func (c *Client) Contracts() *Service         { return c.MustService(ServiceContracts) }
func (c *Client) Feedback() *Service          { return c.MustService(ServiceFeedback) }
func (c *Client) Listings() *Service          { return c.MustService(ServiceListings) }
func (c *Client) MatchProfiles() *Service     { return c.MustService(ServiceMatchProfiles) }
func (c *Client) Notes() *Service             { return c.MustService(ServiceNotes) }
func (c *Client) Properties() *Service        { return c.MustService(ServiceProperties) }
func (c *Client) PublishedListings() *Service { return c.MustService(ServicePublishedListings) }
func (c *Client) Reminders() *Service         { return c.MustService(ServiceReminders) }
func (c *Client) Suburbs() *Service           { return c.MustService(ServiceSuburbs) }
