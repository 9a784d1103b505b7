package database

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"career-matching-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_EnsureCatalogSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	c := &PostgresClient{DB: db}
	ctx := context.Background()

	mock.ExpectPing()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS universities").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS universities").WillReturnError(errors.New("permission denied for schema public"))
	mock.ExpectClose()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.EnsureCatalogSchema(ctx))

	err = c.EnsureCatalogSchema(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create catalog schema")

	require.NoError(t, c.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CloseWithoutPool(t *testing.T) {
	assert.NoError(t, (&PostgresClient{}).Close())
}

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	require.NoError(t, PingRedis(ctx, rdb))

	mr.Close()
	err := PingRedis(ctx, rdb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestElasticsearch_Ping(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, PingElasticsearch(ctx, es))

	status.Store(http.StatusInternalServerError)
	err = PingElasticsearch(ctx, es)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elasticsearch ping error")
}
