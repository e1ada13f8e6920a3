package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/blockqueue/internal/application/board"
	"github.com/aescanero/blockqueue/internal/application/orchestrator"
	"github.com/aescanero/blockqueue/internal/application/runloop"
	"github.com/aescanero/blockqueue/internal/config"
	"github.com/aescanero/blockqueue/internal/stage"
	"github.com/aescanero/blockqueue/pkg/adapters/actor/walker"
	"github.com/aescanero/blockqueue/pkg/adapters/events/memory"
	"github.com/aescanero/blockqueue/pkg/adapters/events/redis"
	"github.com/aescanero/blockqueue/pkg/adapters/metrics/prometheus"
	storagememory "github.com/aescanero/blockqueue/pkg/adapters/storage/memory"
	"github.com/aescanero/blockqueue/pkg/api/http"
	"github.com/aescanero/blockqueue/pkg/api/websocket"
	"github.com/aescanero/blockqueue/pkg/domain"

	"github.com/google/uuid"
	promclient "github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting blockqueue",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Load stage
	st := stage.Default()
	if cfg.StageFile != "" {
		st, err = stage.Load(cfg.StageFile)
		if err != nil {
			logger.Fatal("failed to load stage", zap.Error(err))
		}
	}
	applyStage(cfg, st)

	inventory, err := cfg.Kinds()
	if err != nil {
		logger.Fatal("invalid inventory", zap.Error(err))
	}
	if kinds, _ := st.Kinds(); kinds != nil {
		inventory = kinds
	}

	tiles, err := st.TileMap()
	if err != nil {
		logger.Fatal("invalid stage map", zap.Error(err))
	}
	plan, err := st.Steps()
	if err != nil {
		logger.Fatal("invalid stage plan", zap.Error(err))
	}

	logger.Info("stage loaded",
		zap.String("stage_id", st.ID),
		zap.String("stage_name", st.Name),
		zap.Int("columns", cfg.Grid.Columns),
		zap.Int("rows", cfg.Grid.Rows),
		zap.Int("inventory", len(inventory)),
		zap.Int("plan_steps", len(plan)))

	// Initialize adapters
	bus := memory.NewBus()
	snapshotStorage := storagememory.NewSnapshotStorage()
	metricsCollector := prometheus.NewCollector(promclient.DefaultRegisterer)
	sessionID := uuid.New().String()

	loop := runloop.NewLoop(cfg.Turn.LoopQueueSize, logger)

	untapMetrics := bus.Tap(func(e domain.Event) {
		metricsCollector.RecordEvent(string(e.Type))
	})
	defer untapMetrics()

	// Optional Redis event mirror
	var redisClient *goredis.Client
	var mirror *redis.StreamsMirror
	untapMirror := func() {}
	if cfg.Redis.MirrorEnabled {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		mirror = redis.NewStreamsMirror(
			redisClient,
			cfg.Redis.StreamPrefix,
			sessionID,
			cfg.Redis.StreamMaxLen,
			cfg.Redis.BufferSize,
			logger,
		)
		mirror.Start(ctx)
		untapMirror = bus.Tap(mirror.Observe)
	}

	// Initialize application components
	validator := orchestrator.NewValidator()

	orchestratorMgr, err := orchestrator.NewManager(&orchestrator.Config{
		Bus:       bus,
		Storage:   snapshotStorage,
		Scheduler: loop,
		Metrics:   metricsCollector,
		Logger:    logger,
		SessionID: sessionID,
		Columns:   cfg.Grid.Columns,
		Rows:      cfg.Grid.Rows,
		Layout: board.Layout{
			CellWidth: cfg.Grid.CellWidth,
			Spacing:   cfg.Grid.CellSpacing,
		},
		SettleInterval: cfg.Turn.SettleInterval,
		Inventory:      inventory,
	}, validator)
	if err != nil {
		logger.Fatal("failed to create orchestrator", zap.Error(err))
	}

	actor := walker.NewWalker(bus, tiles, logger)

	bus.GameClear.Subscribe(func(memory.Void) {
		logger.Info("stage cleared", zap.String("stage_id", st.ID))
	})

	loop.Start()

	watchdog := runloop.NewWatchdog(
		loop,
		orchestratorMgr,
		metricsCollector,
		cfg.Watchdog.Interval,
		cfg.Watchdog.ActionTimeout,
		logger,
	)
	watchdog.Start()

	// Initialize API server
	httpServer := http.NewServer(&http.Config{
		Port:     cfg.HTTPPort,
		Loop:     loop,
		Session:  orchestratorMgr,
		Actor:    actor,
		Health:   watchdog,
		Gatherer: promclient.DefaultGatherer,
		Logger:   logger,
	})

	wsHandler := websocket.NewHandler(bus, 256, logger)
	httpServer.SetupWebSocket(wsHandler)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if cfg.Autoplay {
		if err := loop.Post(func() { autoplay(orchestratorMgr, bus, plan, logger) }); err != nil {
			logger.Error("failed to schedule autoplay", zap.Error(err))
		}
	}

	logger.Info("blockqueue started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("session_id", sessionID),
		zap.Bool("autoplay", cfg.Autoplay),
		zap.Bool("redis_mirror", cfg.Redis.MirrorEnabled))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	watchdog.Stop()

	// release bus subscribers on the loop before stopping it
	err = loop.Do(shutdownCtx, func() {
		actor.Close()
		if err := orchestratorMgr.Shutdown(shutdownCtx); err != nil {
			logger.Error("orchestrator shutdown error", zap.Error(err))
		}
		untapMirror()
	})
	if err != nil {
		logger.Error("failed to release bus subscribers", zap.Error(err))
	}

	if err := loop.Shutdown(shutdownCtx); err != nil {
		logger.Error("run loop shutdown error", zap.Error(err))
	}

	if mirror != nil {
		if err := mirror.Close(); err != nil {
			logger.Error("event mirror close error", zap.Error(err))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("blockqueue shut down complete")
}

// applyStage lets the stage file override grid dimensions
func applyStage(cfg *config.Config, st *stage.Stage) {
	if st.Grid.Columns > 0 {
		cfg.Grid.Columns = st.Grid.Columns
	}
	if st.Grid.Rows > 0 {
		cfg.Grid.Rows = st.Grid.Rows
	}
}

// autoplay places the stage plan and starts the attempt. Runs on the loop.
func autoplay(m *orchestrator.Manager, bus *memory.Bus, plan []stage.Step, logger *zap.Logger) {
	for i, step := range plan {
		id, row, err := m.PlaceKind(step.Kind, step.Column)
		if err != nil {
			logger.Error("autoplay placement failed",
				zap.Int("step", i),
				zap.String("kind", step.Kind.String()),
				zap.Int("column", step.Column),
				zap.Error(err))
			return
		}
		logger.Debug("autoplay placed token",
			zap.Int("step", i),
			zap.String("token_id", id),
			zap.Int("row", row))
	}

	logger.Info("autoplay starting attempt", zap.Int("steps", len(plan)))
	bus.GameStart.Raise(memory.Void{})
	bus.TurnEnd.Raise(memory.Void{})
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
