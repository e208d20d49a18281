package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bosscape/lfg-bot/internal/infra/logging"
)

const (
	notificationsTTL = "7 days"
	snapshotsTTL     = "90 days"
)

type result struct {
	Notifications int64 `json:"notifications"`
	Snapshots     int64 `json:"snapshots"`
}

func handler(ctx context.Context) (result, error) {
	log := logging.WithComponent("janitor")
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return result{}, fmt.Errorf("no DATABASE_URL")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return result{}, fmt.Errorf("parse: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return result{}, fmt.Errorf("pool: %w", err)
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var res result
	tag, err := pool.Exec(cctx, `DELETE FROM notifications WHERE created_at < now() - $1::interval`, notificationsTTL)
	if err != nil {
		return res, fmt.Errorf("notifications: %w", err)
	}
	res.Notifications = tag.RowsAffected()

	tag, err = pool.Exec(cctx, `DELETE FROM stat_snapshots WHERE taken_at < now() - $1::interval`, snapshotsTTL)
	if err != nil {
		return res, fmt.Errorf("snapshots: %w", err)
	}
	res.Snapshots = tag.RowsAffected()

	log.Info().Int64("notifications", res.Notifications).Int64("snapshots", res.Snapshots).Msg("pruned")
	return res, nil
}

func main() {
	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), JSON: true})
	lambda.Start(handler)
}
