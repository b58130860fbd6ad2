package rex

import (
	"context"
	"errors"

	"rex-crm-client/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const authenticationService = "Authentication"

// DefaultApplication is the application name sent with login requests.
const DefaultApplication = "rex"

var validate = validator.New()

// Authentication exchanges credentials for a session token and owns every
// mutation of the token store.
type Authentication struct {
	dispatcher  *Dispatcher
	tokens      TokenStore
	application string
}

// NewAuthentication wires the login/logout flow to a dispatcher and token store.
func NewAuthentication(dispatcher *Dispatcher, tokens TokenStore, application string) *Authentication {
	if application == "" {
		application = DefaultApplication
	}
	return &Authentication{
		dispatcher:  dispatcher,
		tokens:      tokens,
		application: application,
	}
}

// Login clears any current token, then authenticates. On success the new token is
// stored and returned. Every failure is an AuthenticationException and leaves the
// store empty.
func (a *Authentication) Login(ctx context.Context, creds Credentials) (string, error) {
	op := authenticationService + "/login"
	a.tokens.Clear()

	if err := validate.Struct(creds); err != nil {
		return "", authError(op, err)
	}

	params := Params{
		"email":       creds.Email,
		"password":    creds.Password,
		"application": a.application,
	}

	var token string
	if err := a.dispatcher.SendAnonymous(ctx, authenticationService, "login", params, &token); err != nil {
		return "", authError(op, err)
	}
	if token == "" {
		return "", authError(op, errors.New("login response did not contain a token"))
	}

	a.tokens.Set(token)
	logger.GlobalLogger.Printf("Rex login succeeded: token=%s", logger.Mask(token))
	return token, nil
}

// Logout invalidates the session remotely when one is held and always clears the
// local token. Remote failures are logged, not returned.
func (a *Authentication) Logout(ctx context.Context) error {
	defer a.tokens.Clear()

	if _, ok := a.tokens.Get(); !ok {
		return nil
	}
	if err := a.dispatcher.Send(ctx, authenticationService, "logout", nil, nil); err != nil {
		logger.GlobalLogger.Errorf("Rex logout failed remotely, clearing local token anyway: error=%v", err)
	}
	return nil
}
