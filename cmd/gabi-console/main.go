package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/app-sre/gabi-console/pkg/cmd"
)

func main() {
	newLogger := zap.NewDevelopment
	if os.Getenv("ENVIRONMENT") == "production" {
		newLogger = zap.NewProduction
	}

	l, err := newLogger()
	if err != nil {
		log.Fatalf("Unable to initialize Zap logger: %s", err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := l.Sugar()
	if err := cmd.Run(ctx, logger, os.Args[1:]); err != nil {
		logger.Fatalf("Unable to run GABI Console: %s", err)
	}
}
