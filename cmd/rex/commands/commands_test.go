package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"rex-crm-client/internal/rextest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, srv *rextest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("LOG_LEVEL", "ERROR")
	if srv != nil {
		t.Setenv("REX_BASE_URL", srv.URL)
	}

	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func withCredentials(t *testing.T, password string) {
	t.Setenv("REX_EMAIL", rextest.Email)
	t.Setenv("REX_PASSWORD", password)
}

func TestServicesCommand(t *testing.T) {
	out, err := run(t, nil, "services")
	require.NoError(t, err)

	var entries []struct {
		Name    string   `json:"name"`
		Methods []string `json:"methods"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 13)
	for _, e := range entries {
		assert.Greater(t, len(e.Methods), 1, e.Name)
	}
}

func TestPointCommand(t *testing.T) {
	out, err := run(t, nil, "point", "POINT(-38.294285 143.175875)")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":-38.294285,"lng":143.175875}`, out)

	out, err = run(t, nil, "point", "bad", "value")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":null,"lng":null}`, out)
}

func TestDescribeCommand(t *testing.T) {
	srv := rextest.NewServer(t)

	out, err := run(t, srv, "describe", "Contacts")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Contacts"`)

	_, err = run(t, srv, "describe", "Widgets")
	assert.ErrorContains(t, err, "unknown service")
}

func TestReadCommandLogsInAndOut(t *testing.T) {
	srv := rextest.NewServer(t)
	withCredentials(t, rextest.Password)

	out, err := run(t, srv, "read", "Listings", "68", "--fields", "_id,property")
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.EqualValues(t, 68, rec["_id"])
	assert.Zero(t, srv.ActiveTokens())

	var methods []string
	for _, r := range srv.Requests() {
		methods = append(methods, r.Service+"/"+r.Method)
	}
	assert.Equal(t, []string{"Authentication/login", "Listings/read", "Authentication/logout"}, methods)
}

func TestSearchCommand(t *testing.T) {
	srv := rextest.NewServer(t)
	withCredentials(t, rextest.Password)

	out, err := run(t, srv, "search", "Properties", "--limit", "2", "--offset", "1")
	require.NoError(t, err)

	var res struct {
		Rows  []map[string]interface{} `json:"rows"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, 3, res.Total)
	assert.EqualValues(t, 13, res.Rows[0]["_id"])
}

func TestLoginCommand(t *testing.T) {
	srv := rextest.NewServer(t)

	withCredentials(t, "wrong")
	_, err := run(t, srv, "login")
	assert.Error(t, err)

	withCredentials(t, rextest.Password)
	out, err := run(t, srv, "login")
	require.NoError(t, err)
	assert.Contains(t, out, `"logged_in": true`)
	assert.NotContains(t, out, "token-1")
	assert.Zero(t, srv.ActiveTokens())
}

func TestSessionCommandsNeedCredentials(t *testing.T) {
	srv := rextest.NewServer(t)
	t.Setenv("REX_EMAIL", "")
	t.Setenv("EMAIL", "")
	t.Setenv("REX_PASSWORD", "")
	t.Setenv("PASSWORD", "")

	_, err := run(t, srv, "search", "Properties")

	assert.ErrorContains(t, err, "no credentials")
	assert.Empty(t, srv.Requests())
}

func TestReadCommandRejectsBadID(t *testing.T) {
	srv := rextest.NewServer(t)
	withCredentials(t, rextest.Password)

	_, err := run(t, srv, "read", "Listings", "sixty-eight")

	assert.Error(t, err)
	assert.Empty(t, srv.Requests())
}
