package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/KDT2006/termdice/internal/config"
	"github.com/KDT2006/termdice/internal/server"
	"github.com/spf13/cobra"
)

var (
	configPath string
	listenAddr string
	maxPlayers int
)

var rootCmd = &cobra.Command{
	Use:   "termdice-server",
	Short: "authoritative dice game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}
		if maxPlayers != 0 {
			if maxPlayers < cfg.MinPlayers || maxPlayers > 6 {
				return fmt.Errorf("--max-players must be between %d and 6", cfg.MinPlayers)
			}
			cfg.MaxPlayers = maxPlayers
		}

		setLogLevel(cfg.LogLevel)

		srv := server.New(cfg)
		return srv.Start()
	},
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file directory")
	rootCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
	rootCmd.Flags().IntVar(&maxPlayers, "max-players", 0, "maximum player count (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
