//go:build integration
// +build integration

package test

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/orlangure/gnomock"
	"github.com/orlangure/gnomock/preset/postgres"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/app-sre/gabi-console/pkg/cmd"
	"github.com/app-sre/gabi-console/pkg/config"
	"github.com/app-sre/gabi-console/pkg/env/db"
)

func startPostgres(t *testing.T) *gnomock.Container {
	t.Helper()

	p := postgres.Preset(
		postgres.WithUser("gnomock", "gnomick"),
		postgres.WithDatabase("mydb"),
		postgres.WithQueries(
			`create table users (id integer primary key, name text, email text)`,
			`insert into users values (1, 'alice', 'alice@example.com'), (2, 'bob', null)`,
		),
	)

	options := p.Options()
	options = append(options, gnomock.WithUseLocalImagesFirst())
	if token := os.Getenv("QUAY_TOKEN"); token != "" {
		options = append(options, gnomock.WithRegistryAuth(token))
	}

	psql, err := gnomock.Start(p, options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gnomock.Stop(psql) })

	return psql
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	return l.Addr().(*net.TCPAddr).Port
}

// startServer runs the query endpoint against the container and returns
// its configuration once the server accepts connections.
func startServer(t *testing.T, psql *gnomock.Container, allowWrite bool) *config.Config {
	t.Helper()

	port := freePort(t)
	conf := &config.Config{
		Endpoint: fmt.Sprintf("http://localhost:%d/query", port),
		Timeout:  30 * time.Second,
		Format:   "text",
		Server:   config.Server{Port: port, Timeout: time.Minute},
		DB: db.Env{
			Driver:     "pgx",
			Host:       psql.Host,
			Port:       psql.DefaultPort(),
			Username:   "gnomock",
			Password:   "gnomick",
			Name:       "mydb",
			AllowWrite: allowWrite,
		},
	}

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = cmd.Serve(ctx, conf, logger.Sugar())
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	waitForServer(t, port)

	return conf
}

func waitForServer(t *testing.T, port int) {
	t.Helper()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", fmt.Sprintf("localhost:%d", port))
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 30*time.Second, 100*time.Millisecond)
}
