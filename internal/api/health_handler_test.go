package api_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrackhq/tasktrack-api/internal/api"
)

// Minimal sql drivers so the probe can run without a live database: one
// answers SELECT 1, the other refuses every connection.

type healthyDriver struct{}

func (healthyDriver) Open(string) (driver.Conn, error) { return healthyConn{}, nil }

type healthyConn struct{}

func (healthyConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (healthyConn) Close() error              { return nil }
func (healthyConn) Begin() (driver.Tx, error) { return nil, errors.New("begin not supported") }

func (healthyConn) QueryContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Rows, error) {
	return &singleIntRows{}, nil
}

var _ driver.QueryerContext = healthyConn{}

type singleIntRows struct {
	done bool
}

func (r *singleIntRows) Columns() []string { return []string{"?column?"} }
func (r *singleIntRows) Close() error      { return nil }
func (r *singleIntRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = int64(1)
	return nil
}

type downDriver struct{}

func (downDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("connection refused")
}

func init() {
	sql.Register("health-probe-ok", healthyDriver{})
	sql.Register("health-probe-down", downDriver{})
}

func doHealth(t *testing.T, handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealthHandlerLive(t *testing.T) {
	t.Parallel()

	handler := api.NewHealthHandler(nil)
	rec := doHealth(t, handler.Live, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestHealthHandlerDatabase(t *testing.T) {
	t.Parallel()

	t.Run("reachable database reports ok", func(t *testing.T) {
		t.Parallel()

		db, err := sql.Open("health-probe-ok", "")
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		rec := doHealth(t, api.NewHealthHandler(db).Database, "/health/db")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decodeBody(t, rec)["status"])
	})

	t.Run("unreachable database reports degraded with 200", func(t *testing.T) {
		t.Parallel()

		db, err := sql.Open("health-probe-down", "")
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		rec := doHealth(t, api.NewHealthHandler(db).Database, "/health/db")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "database unreachable", body["detail"])
	})
}
