package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/etherlabsio/healthcheck/v2"

	gabi "github.com/app-sre/gabi-console/pkg"
)

const healthcheckTimeout = 5 * time.Second

var errDatabaseUnavailable = errors.New("Unable to connect to the database")

func Healthcheck(cfg *gabi.Config) http.Handler {
	return healthcheck.Handler(
		healthcheck.WithTimeout(healthcheckTimeout),
		healthcheck.WithChecker(
			"database", healthcheck.CheckerFunc(
				func(ctx context.Context) error {
					if err := cfg.DB.PingContext(ctx); err != nil {
						cfg.Logger.Errorf("Unable to connect to the database: %s", err)
						return errDatabaseUnavailable
					}
					return nil
				},
			),
		),
	)
}
