// The dekbox-console command serves the envelope-encryption demo console on
// localhost and opens it to a browser.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dekbox/console-go/internal/console"
)

const cmdName = "dekbox-console"

type appConfig struct {
	ListenAddr    string        `mapstructure:"listen-addr"`
	CORSOrigins   []string      `mapstructure:"cors-origins"`
	DebounceDelay time.Duration `mapstructure:"debounce-delay"`
	Verbose       bool          `mapstructure:"verbose"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("console failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg appConfig
	vip := viper.New()

	cmd := &cobra.Command{
		Use:           cmdName,
		Short:         "Local envelope-encryption demo console",
		Long: "Serves a browser UI demonstrating envelope encryption: AEAD payload\n" +
			"encryption under a per-message DEK, with the DEK wrapped to each\n" +
			"recipient via secp256k1 ECDH or ML-KEM-768.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			if file, err := cmd.Flags().GetString("config"); err == nil && file != "" {
				vip.SetConfigFile(file)
				if err := vip.ReadInConfig(); err != nil {
					return fmt.Errorf("invalid configuration file: %w", err)
				}
			} else {
				vip.SetConfigName(cmdName)
				vip.AddConfigPath(".")
				if err := vip.ReadInConfig(); err != nil {
					var notFound viper.ConfigFileNotFoundError
					if !errors.As(err, &notFound) {
						return fmt.Errorf("invalid configuration file: %w", err)
					}
				}
			}

			vip.SetEnvPrefix("DEKBOX")
			vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			vip.AutomaticEnv()

			if err := vip.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("unable to decode configuration: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
	}

	cmd.Flags().String("listen-addr", "127.0.0.1:8639", "address to serve the console on")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed browser origins (empty allows any)")
	cmd.Flags().Duration("debounce-delay", 400*time.Millisecond, "delay before an auto-run decrypt fires")
	cmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "use a specific configuration file")

	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}

	return cmd
}

func run(cmd *cobra.Command, cfg appConfig) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := console.New(
		console.WithListenAddr(cfg.ListenAddr),
		console.WithCORSOrigins(cfg.CORSOrigins),
		console.WithDebounceDelay(cfg.DebounceDelay),
		console.WithLogger(logger),
	)

	logger.Info("open the console in a browser", "url", "http://"+srv.Addr())

	return srv.Run(ctx)
}
