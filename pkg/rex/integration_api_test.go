//go:build api

// Tests against the live Rex API. Run with: go test -tags api ./pkg/rex/...
// Requires REX_EMAIL and REX_PASSWORD (or EMAIL and PASSWORD).

package rex_test

import (
	"context"
	"os"
	"testing"
	"time"

	"rex-crm-client/pkg/rex"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveCredentials(t *testing.T) (string, string) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	email, password := os.Getenv("REX_EMAIL"), os.Getenv("REX_PASSWORD")
	if email == "" {
		email, password = os.Getenv("EMAIL"), os.Getenv("PASSWORD")
	}
	if email == "" || password == "" {
		t.Skip("REX_EMAIL/REX_PASSWORD not set")
	}
	return email, password
}

func TestAPI_LoginSearchLogout(t *testing.T) {
	email, password := liveCredentials(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c := rex.NewClient()

	_, err := c.Login(ctx, "bad", "bad")
	assert.True(t, rex.IsAuthentication(err))
	assert.False(t, c.HasToken())

	token, err := c.Login(ctx, email, password)
	require.NoError(t, err)
	assert.Equal(t, token, c.Token())

	res, err := c.Properties().Search(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.Rows)
	assert.Contains(t, res.Rows[0], "_id")

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Token())
}

func TestAPI_DescribeEveryService(t *testing.T) {
	liveCredentials(t)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	c := rex.NewClient()
	for _, name := range c.Services() {
		d, err := c.MustService(name).Describe(ctx)
		require.NoError(t, err, name)
		assert.NotEmpty(t, d.Methods, name)
	}
}
