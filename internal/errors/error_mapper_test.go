package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"rex-crm-client/internal/rextest"
	"rex-crm-client/pkg/rex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorNil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapErrorKeepsAppError(t *testing.T) {
	appErr := NewAppError("bad limit", MsgInvalidParameters, ErrCodeInvalidParameters, http.StatusBadRequest, nil)

	assert.Same(t, appErr, MapError(fmt.Errorf("handler: %w", appErr)))
	assert.Equal(t, MsgInvalidParameters, appErr.Error())
}

func TestMapErrorUnknown(t *testing.T) {
	got := MapError(stderrors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.Equal(t, ErrCodeInternal, got.Code)
	assert.Equal(t, "boom", got.TechnicalMessage)
}

func TestMapErrorDeadline(t *testing.T) {
	got := MapError(fmt.Errorf("search: %w", context.DeadlineExceeded))

	assert.Equal(t, http.StatusGatewayTimeout, got.HTTPStatus)
}

// The rex errors below come from a real client talking to the fake server.
func TestMapErrorRexErrors(t *testing.T) {
	ctx := context.Background()
	srv := rextest.NewServer(t)
	c := rex.NewClient(rex.WithBaseURL(srv.URL))

	_, err := c.Login(ctx, rextest.Email, "wrong")
	require.Error(t, err)
	got := MapError(err)
	assert.Equal(t, http.StatusUnauthorized, got.HTTPStatus)
	assert.Equal(t, ErrCodeUnauthenticated, got.Code)

	_, err = c.Listings().Search(ctx, nil)
	require.Error(t, err)
	got = MapError(err)
	assert.Equal(t, http.StatusUnauthorized, got.HTTPStatus)
	assert.Equal(t, ErrCodeNoSession, got.Code)

	_, err = c.Login(ctx, rextest.Email, rextest.Password)
	require.NoError(t, err)

	_, err = c.Listings().Read(ctx, 999999)
	require.Error(t, err)
	got = MapError(err)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
	assert.Equal(t, ErrCodeRecordNotFound, got.Code)

	_, err = c.Listings().Read(ctx, nil)
	require.Error(t, err)
	got = MapError(err)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)

	err = c.Listings().Call(ctx, "getFields", nil, nil)
	assert.Equal(t, http.StatusBadRequest, MapError(err).HTTPStatus)
}

func TestMapErrorUnreachableRex(t *testing.T) {
	srv := rextest.NewServer(t)
	c := rex.NewClient(rex.WithBaseURL(srv.URL))
	srv.Close()

	_, err := c.Listings().Describe(context.Background())
	require.Error(t, err)

	got := MapError(err)
	assert.Equal(t, http.StatusBadGateway, got.HTTPStatus)
	assert.Equal(t, ErrCodeServiceUnavailable, got.Code)
}
