package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fieldline/hexarena/internal/chat"
	"github.com/fieldline/hexarena/internal/config"
	"github.com/fieldline/hexarena/internal/game"
	"github.com/fieldline/hexarena/internal/ws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
)

const version = "v0.2.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Hexarena - Turn-based hex skirmishes inside chat channels

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT               Port to listen on (default: 8080)
  LOG_LEVEL          Log level: trace, debug, info, warn, error (default: info)
  ALLOWED_ORIGINS    Comma-separated WebSocket origin allowlist (default: *)
  TRANSCRIPT_FILE    Append session events to this file (disabled when empty)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Connect clients to ws://localhost:8080/ws?channel_id=CHANNEL&user_id=USER.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Hexarena %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Config
	cfg, err := config.FromEnv()
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		zerologlog.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, staying on info")
	}

	// Determine port
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// Gin setup with custom logger (skip /ws noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/ws") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	corsCfg := cors.DefaultConfig()
	if cfg.AllowAnyOrigin() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Channel roster + socket hub + game registry
	roster := chat.NewRoster()
	hub := ws.New(roster, cfg)
	transcript := game.NewTranscript(cfg.TranscriptFile)
	registry := game.NewRegistry(hub, transcript)
	hub.SetRegistry(registry)
	roster.OnLeave(registry.Leave)
	hub.Mount(r)

	// Operator view of live sessions
	r.GET("/api/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.Status())
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + port, Handler: r}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	zerologlog.Info().Str("port", port).Str("version", version).Msg("listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zerologlog.Error().Err(err).Msg("shutdown")
			return
		}
		zerologlog.Info().Msg("drained, bye")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerologlog.Fatal().Err(err).Msg("serve")
		}
	}
}
