// Command seed-replies writes a reply table into DynamoDB so servers
// started with REPLY_TABLE_SOURCE=dynamodb can load it.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/spacesedan/empathybot/config"
	"github.com/spacesedan/empathybot/internal/clients"
	"github.com/spacesedan/empathybot/internal/db"
	"github.com/spacesedan/empathybot/internal/logging"
	"github.com/spacesedan/empathybot/internal/replies"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()

	var (
		tableFile = flag.String("replies", "", "TOML reply table (defaults to the built-in table)")
		tableName = flag.String("table", cfg.DynamoDBReplyTable, "DynamoDB table name")
		dryRun    = flag.Bool("dry-run", false, "Validate the reply table without writing it")
	)
	flag.Parse()

	logging.InitLogger(cfg.LogLevel)

	table := replies.DefaultTable()
	if *tableFile != "" {
		var err error
		table, err = replies.LoadFile(*tableFile)
		if err != nil {
			slog.Error("[SeedReplies] Failed to load reply table", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("[SeedReplies] Reply table ready", "replies", table.Len(), "dry_run", *dryRun)
	if *dryRun {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := clients.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
	if err != nil {
		slog.Error("[SeedReplies] DynamoDB unavailable", "error", err)
		os.Exit(1)
	}

	if err := db.StoreReplyTable(ctx, client, *tableName, table); err != nil {
		slog.Error("[SeedReplies] Failed to store reply table", "error", err)
		os.Exit(1)
	}
	slog.Info("[SeedReplies] Reply table stored", "table", *tableName)
}
