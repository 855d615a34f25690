package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gzambran/poligrade/lib/configutil"
	"github.com/gzambran/poligrade/lib/serviceutil"
	"github.com/gzambran/poligrade/lib/telemetry"
	"github.com/gzambran/poligrade/services/politicians"
	politiciansdb "github.com/gzambran/poligrade/services/politicians/db"
	"github.com/gzambran/poligrade/services/positionparser"

	"github.com/lmittmann/tint"
)

type Config struct {
	Port int `json:"port"`
	// bearer token protecting the admin surface; empty disables the
	// gate (local development only)
	AccessToken string           `json:"access_token"`
	Database    configutil.Sqlite `json:"database"`
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func main() {
	ctx := serviceutil.SignalContext()
	initSlog(os.Getenv("POLIGRADE_VERBOSE") != "")

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Port == 0 {
		config.Port = 8400
	}

	db, err := config.Database.OpenDB(politiciansdb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "poligrade")
	if err != nil {
		slog.Warn("telemetry disabled", "err", err)
	} else {
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}

	service := politicians.NewService(db)

	mux := http.NewServeMux()
	service.Register(mux, config.AccessToken)
	positionparser.RegisterCommit(mux, politicians.NewRecordStore(service), config.AccessToken)

	go serviceutil.StartHttpServer(config.Port, mux)

	<-ctx.Done()
}
