package gabi

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/app-sre/gabi-console/pkg/audit"
	"github.com/app-sre/gabi-console/pkg/env/db"
)

// Config carries the shared dependencies of the query endpoint handlers.
type Config struct {
	DB          *sql.DB
	DBEnv       *db.Env
	LoggerAudit audit.Audit
	Logger      *zap.SugaredLogger
}
