package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/yt-filter/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("ytfilter failed")
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var envFile string

	root := &cobra.Command{
		Use:           "ytfilter",
		Short:         "Filter a YouTube channel's videos by views and upload date",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			if err := config.LoadEnvFile(files...); err != nil {
				return err
			}
			return setupLogging(v)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&envFile, "env-file", "", "file with KEY=value lines loaded before reading the environment (default .env)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Int("concurrency", 1, "views lookups in flight per playlist page")
	flags.Float64("rps", 0, "maximum YouTube API calls per second (0 for unlimited)")
	flags.String("db-path", "", "SQLite Cloud connection string for the run archive")
	bindFlag(v, config.KeyLogLevel, flags.Lookup("log-level"))
	bindFlag(v, config.KeyConcurrency, flags.Lookup("concurrency"))
	bindFlag(v, config.KeyRPS, flags.Lookup("rps"))
	bindFlag(v, config.KeyDBPath, flags.Lookup("db-path"))

	root.AddCommand(newExportCmd(v), newServeCmd(v))
	return root
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func setupLogging(v *viper.Viper) error {
	level, err := zerolog.ParseLevel(v.GetString(config.KeyLogLevel))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
	return nil
}
