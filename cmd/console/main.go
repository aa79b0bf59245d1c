// Command console is the terminal front-end of the license console. It talks
// to the gateway's /api routes and keeps the login session in a configurable
// store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/licensehub/console-gateway/internal/client"
	"github.com/licensehub/console-gateway/internal/infrastructure/config"
	mongostore "github.com/licensehub/console-gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/licensehub/console-gateway/internal/infrastructure/db/redis"
	"github.com/licensehub/console-gateway/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.LoadConsole(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "console",
		Output:  os.Stderr,
	})

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	api := client.New(cfg.GatewayURL, nil, log)
	return newApp(client.NewConsole(api, store), out).dispatch(ctx, args)
}

// openStore builds the session store named by CONSOLE_SESSION_STORE.
func openStore(ctx context.Context, cfg *config.ConsoleConfig) (client.SessionStore, func(), error) {
	noop := func() {}

	switch cfg.SessionStore {
	case config.StoreMemory:
		return client.NewMemoryStore(), noop, nil

	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSessionStore(rdb, cfg.Profile), func() { _ = rdb.Close() }, nil

	case config.StoreMongo:
		db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		return mongostore.NewSessionStore(db, cfg.Profile), func() { _ = mongostore.Disconnect(context.Background(), db) }, nil

	default:
		path := cfg.SessionFile
		if path == "" {
			p, err := client.DefaultSessionFile(cfg.Profile)
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		return client.NewFileStore(path), noop, nil
	}
}

// describe renders errors the way an operator wants to read them.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrNoSession):
		return "not logged in, run: console login -username <user>"
	case errors.Is(err, client.ErrSessionExpired):
		return err.Error()
	}
	if ae, ok := client.AsAPIError(err); ok && ae.Kind == client.KindUnreachable {
		return ae.Message
	}
	return err.Error()
}
