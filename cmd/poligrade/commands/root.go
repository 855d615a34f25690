package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gzambran/poligrade/lib/configutil"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "poligrade",
	Short: "poligrade is an admin CLI for the poligrade backend.",
}

// Config mirrors the server's config file with the additional parser
// backend section. Environment variables override for the parser
// backend since deployments configure it that way.
type Config struct {
	Server struct {
		BaseUrl     string `json:"base_url"`
		AccessToken string `json:"access_token"`
	} `json:"server"`
	Parser struct {
		BaseUrl string `json:"base_url"`
		ApiKey  string `json:"api_key"`
	} `json:"parser"`
}

func readConfig() Config {
	cfg, err := configutil.ReadRecursively[Config]("poligrade.json5")
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if v := os.Getenv("POSITION_PARSER_URL"); v != "" {
		cfg.Parser.BaseUrl = v
	}
	if v := os.Getenv("POSITION_PARSER_API_KEY"); v != "" {
		cfg.Parser.ApiKey = v
	}
	if v := os.Getenv("POLIGRADE_SERVER_URL"); v != "" {
		cfg.Server.BaseUrl = v
	}
	if v := os.Getenv("POLIGRADE_ACCESS_TOKEN"); v != "" {
		cfg.Server.AccessToken = v
	}
	return cfg
}

func ExecuteContext(ctx context.Context) {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
