package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yt-filter/internal/api"
	"github.com/yt-filter/internal/config"
	"github.com/yt-filter/internal/filter"
	"github.com/yt-filter/internal/models"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve filter runs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			youtubeAPI, err := api.NewYouTubeAPI(cmd.Context(), cfg.YouTubeAPIKey)
			if err != nil {
				return err
			}

			var store filter.RunStore
			if cfg.ArchiveEnabled() {
				db, err := models.NewDatabase(cfg.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()
				store = db
			}

			return api.NewServer(cfg, filter.RateLimit(youtubeAPI, cfg.RequestsPerSecond), store).Start()
		},
	}

	cmd.Flags().String("port", "8080", "port to listen on")
	cmd.Flags().StringSlice("allow-origins", []string{config.DefaultAllowOrigin}, "CORS allowed origins")
	bindFlag(v, config.KeyPort, cmd.Flags().Lookup("port"))
	bindFlag(v, config.KeyAllowOrigins, cmd.Flags().Lookup("allow-origins"))

	return cmd
}
