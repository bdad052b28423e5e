// Command backend is the main entrypoint for the chat-tender service.
// It:
//   - Loads configuration and initializes structured logging.
//   - Optionally connects to Postgres and runs idempotent migrations (the
//     archive is disabled when DB_DSN is empty).
//   - Joins the configured Twitch channel and ingests chat into the in-memory
//     append-only log.
//   - Exposes an HTTP server with the log, chatter, settings, send, and
//     streaming endpoints plus /healthz, /readyz, and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // G108: pprof endpoints enabled only when ENABLE_PPROF=1
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/onnwee/chat-tender/backend/config"
	"github.com/onnwee/chat-tender/backend/db"
	"github.com/onnwee/chat-tender/backend/ingest"
	"github.com/onnwee/chat-tender/backend/logstore"
	"github.com/onnwee/chat-tender/backend/notify"
	"github.com/onnwee/chat-tender/backend/server"
	"github.com/onnwee/chat-tender/backend/settings"
	"github.com/onnwee/chat-tender/backend/stream"
	"github.com/onnwee/chat-tender/backend/telemetry"
	"github.com/onnwee/chat-tender/backend/twitchapi"
	"github.com/onnwee/chat-tender/backend/view"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load("backend/.env")

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()), slog.String("format", map[bool]string{true: "json", false: "text"}[format == "json"]))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("chat-tender", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	// DB archive is optional: an empty DB_DSN runs purely in memory.
	var sqlDB *sql.DB
	if cfg.DBDsn != "" {
		sqlDB, err = db.Connect()
		if err != nil {
			slog.Error("failed to open db", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close database", slog.Any("err", err))
			}
		}()
		slog.Info("running database migrations", slog.String("component", "db_migrate"))
		if err := db.Migrate(context.Background(), sqlDB); err != nil {
			slog.Error("failed to migrate db", slog.Any("err", err))
			os.Exit(1)
		}
	} else {
		slog.Info("archive disabled (DB_DSN not set), running in memory only")
	}

	// Core state: append-only log, chatter index, memoized views, broadcast hub.
	store := logstore.NewMemoryStore()
	users := logstore.NewUsers()
	views := view.New(store, users)
	hub := stream.NewHub(stream.DefaultBuffer)

	var archive *db.Archive
	if sqlDB != nil {
		archive = db.NewArchive(sqlDB, cfg.TwitchChannel)
	}

	// Settings registry, seeded from the archive when present.
	var persister settings.Persister
	if archive != nil {
		persister = archive
	}
	registry := settings.New(persister)
	if archive != nil {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		actions, err := archive.LoadActions(seedCtx)
		if err != nil {
			slog.Warn("failed to load persisted actions", slog.Any("err", err))
		}
		highlights, err := archive.LoadHighlights(seedCtx)
		if err != nil {
			slog.Warn("failed to load persisted highlights", slog.Any("err", err))
		}
		cancel()
		registry.Seed(actions, highlights)
	}

	notifier := notify.New(cfg.TwitchBotUsername, store, hub, registry.Highlights)

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Best-effort: resolve the channel's user id via Helix (client-credentials)
	// so operators can correlate the log with other Twitch tooling.
	if cfg.TwitchClientID != "" && cfg.TwitchClientSecret != "" && cfg.TwitchChannel != "" {
		helix := &twitchapi.HelixClient{
			AppTokenSource: &twitchapi.TokenSource{ClientID: cfg.TwitchClientID, ClientSecret: cfg.TwitchClientSecret},
			ClientID:       cfg.TwitchClientID,
		}
		hctx, cancel := context.WithTimeout(ctx, 8*time.Second)
		if id, err := helix.GetUserID(hctx, cfg.TwitchChannel); err != nil {
			slog.Warn("channel user id lookup failed", slog.Any("err", err))
		} else {
			slog.Info("resolved channel user id", slog.String("channel", cfg.TwitchChannel), slog.String("user_id", id))
			if sqlDB != nil {
				if err := db.UpsertKV(hctx, sqlDB, "channel_user_id", id); err != nil {
					slog.Warn("failed to persist channel user id", slog.Any("err", err))
				}
			}
		}
		cancel()
	}

	// Chat ingest: prefer a refreshing user token, fall back to a static one.
	var tokens ingest.TokenProvider
	switch {
	case cfg.TwitchRefreshToken != "" && cfg.TwitchClientID != "" && cfg.TwitchClientSecret != "":
		tokens = twitchapi.NewChatTokenSource(ctx, cfg.TwitchClientID, cfg.TwitchClientSecret, cfg.TwitchRefreshToken)
	case cfg.TwitchOAuthToken != "":
		tokens = twitchapi.StaticChatToken(cfg.TwitchOAuthToken)
	}

	var chatSvc server.ChatService
	if cfg.TwitchChannel != "" && cfg.TwitchBotUsername != "" && tokens != nil {
		var archiver ingest.Archiver
		if archive != nil {
			archiver = archive
		}
		svc := ingest.New(cfg, store, users, hub, notifier, archiver, tokens)
		chatSvc = svc
		go func() {
			if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("chat ingest exited with error", slog.Any("err", err))
			}
		}()
	} else {
		slog.Info("chat ingest disabled (missing twitch channel, bot username, or token)")
	}

	// Enable pprof profiling endpoints in debug mode (ENABLE_PPROF=1)
	if os.Getenv("ENABLE_PPROF") == "1" {
		pprofAddr := os.Getenv("PPROF_ADDR")
		if pprofAddr == "" {
			pprofAddr = "localhost:6060"
		}
		go func() {
			slog.Info("pprof profiling enabled", slog.String("addr", pprofAddr))
			srv := &http.Server{
				Addr:              pprofAddr,
				Handler:           nil, // default mux exposes /debug/pprof
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      10 * time.Second,
				IdleTimeout:       60 * time.Second,
			}
			if err := srv.ListenAndServe(); err != nil {
				slog.Error("pprof server error", slog.Any("err", err))
			}
		}()
	}

	// HTTP server
	handlers := server.NewHandlers(cfg, views, users, hub, chatSvc, registry, sqlDB)
	go func() {
		if err := server.Start(ctx, handlers, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
}
