package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/pkg/errors"

	"github.com/freekieb7/rusty/chat"
	"github.com/freekieb7/rusty/http"
	"github.com/freekieb7/rusty/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	// Handle SIGINT (CTRL+C) gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	otelShutdown, err := telemetry.Setup(ctx)
	if err != nil {
		return err
	}
	defer otelShutdown(context.Background())

	bot := chat.NewBot()
	history := chat.NewHistory()

	router := http.NewRouter()
	router.AddMiddleware(http.CorsMiddleware(), http.RecoverMiddleware())
	router.POST("/api/chat", chat.ChatHandler(bot, history))
	router.OPTIONS("/api/chat", chat.PreflightHandler())

	server := http.NewServer("rusty", router.Handler())
	if v := os.Getenv("RUSTY_MAX_CONNS"); v != "" {
		maxConns, err := parseMaxConns(v)
		if err != nil {
			return err
		}
		server.MaxConns = maxConns
	}

	addr := os.Getenv("RUSTY_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	serverErrorChannel := make(chan error, 1)
	go func() {
		serverErrorChannel <- server.ListenAndServe(ctx, addr)
	}()

	// Wait for interruption.
	select {
	case err := <-serverErrorChannel:
		// Error when starting the server, e.g. the bind failed.
		return err
	case <-ctx.Done():
		// Stop receiving signal notifications as soon as possible.
		stop()
	}

	return server.Shutdown(context.Background())
}

func parseMaxConns(v string) (int, error) {
	maxConns, err := strconv.Atoi(v)
	if err != nil || maxConns < 1 {
		return 0, errors.Errorf("invalid RUSTY_MAX_CONNS: %q", v)
	}
	return maxConns, nil
}
