package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yt-filter/internal/api"
	"github.com/yt-filter/internal/config"
	"github.com/yt-filter/internal/export"
	"github.com/yt-filter/internal/filter"
	"github.com/yt-filter/internal/models"
)

// runFlags holds the export command line before validation
type runFlags struct {
	minViews   int64
	maxViews   int64
	minDate    string
	maxDate    string
	ascending  bool
	sortByDate bool
	earlyStop  bool
	useList    bool
	outputDir  string
	formats    []string
	print      bool
}

// toOptions converts flags into filter options for link
func (f runFlags) toOptions(link string, concurrency int) (filter.Options, error) {
	opts := filter.DefaultOptions(link)
	opts.Criteria.MinViews = f.minViews
	opts.Criteria.MaxViews = f.maxViews
	opts.Sort.Ascending = f.ascending
	if f.sortByDate {
		opts.Sort.By = models.SortByDate
	}
	opts.EarlyStop = f.earlyStop
	opts.UseListPlaylist = f.useList
	opts.Concurrency = concurrency

	if f.minDate != "" {
		d, err := models.ParseDate(f.minDate)
		if err != nil {
			return opts, fmt.Errorf("--min-date: %w", err)
		}
		opts.Criteria.MinDate = d
	}
	if f.maxDate != "" {
		d, err := models.ParseDate(f.maxDate)
		if err != nil {
			return opts, fmt.Errorf("--max-date: %w", err)
		}
		opts.Criteria.MaxDate = d
	}
	return opts, opts.Criteria.Validate()
}

func newExportCmd(v *viper.Viper) *cobra.Command {
	var rf runFlags

	cmd := &cobra.Command{
		Use:   "export <youtube-url>",
		Short: "Fetch, filter and sort a channel's videos and write txt, html, csv and json files",
		Example: `  ytfilter export https://www.youtube.com/channel/UCW2nvVd1fOXKld6M6Hvo9tA --min-views 130000 --max-views 300000 --min-date 2017-01-01
  ytfilter export "https://www.youtube.com/watch?v=abc&list=PL123" --sort-by-date --ascending
  ytfilter export https://www.youtube.com/c/SomeName/videos --formats csv,json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts, err := rf.toOptions(args[0], cfg.Concurrency)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			youtubeAPI, err := api.NewYouTubeAPI(ctx, cfg.YouTubeAPIKey)
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

			platform := filter.RateLimit(youtubeAPI, cfg.RequestsPerSecond)
			return executeExport(ctx, platform, store, opts, rf, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&rf.minViews, "min-views", 0, "keep videos with at least this many views")
	flags.Int64Var(&rf.maxViews, "max-views", models.DefaultMaxViews, "keep videos with fewer views than this")
	flags.StringVar(&rf.minDate, "min-date", "", "keep videos uploaded on or after this date (YYYY-MM-DD)")
	flags.StringVar(&rf.maxDate, "max-date", "", "keep videos uploaded on or before this date (YYYY-MM-DD)")
	flags.BoolVar(&rf.ascending, "ascending", false, "sort in ascending order")
	flags.BoolVar(&rf.sortByDate, "sort-by-date", false, "sort by upload date instead of views")
	flags.BoolVar(&rf.earlyStop, "early-stop", true, "stop paging once a page begins before --min-date")
	flags.BoolVar(&rf.useList, "use-list", false, "for watch links, walk the linked playlist instead of the channel uploads")
	flags.StringVarP(&rf.outputDir, "output-dir", "o", ".", "directory the files are written to")
	flags.StringSliceVar(&rf.formats, "formats", nil, "formats to write: txt, html, csv, json (default all)")
	flags.BoolVar(&rf.print, "print", false, "also print the readable lines to stdout")

	return cmd
}

// executeExport runs the filter and writes every requested format.
// Export failures of single formats are joined into the returned error.
func executeExport(ctx context.Context, platform filter.Platform, store filter.RunStore, opts filter.Options, rf runFlags, stdout io.Writer) error {
	formats, err := export.ParseFormats(rf.formats)
	if err != nil {
		return err
	}

	result, err := filter.New(platform).Run(ctx, opts)
	if err != nil {
		return err
	}

	log.Info().
		Str("channel", result.Channel.Title).
		Int("videos", result.Summary.TotalVideos).
		Int64("total_views", result.Summary.TotalViews).
		Float64("average_views", result.Summary.AverageViews).
		Str("from", result.Summary.TimeRange.StartDate).
		Str("to", result.Summary.TimeRange.EndDate).
		Msg("Filter run complete")

	if rf.print {
		if err := export.WriteText(stdout, result.Videos, result.Order); err != nil && !errors.Is(err, models.ErrEmptyResultExport) {
			return err
		}
	}

	if store != nil {
		if err := store.StoreRun(result.Record()); err != nil {
			log.Error().Err(err).Msg("Failed to archive run")
		}
	}

	paths, err := export.SaveAll(rf.outputDir, result.Channel.Title, formats, result.Videos, result.Order)
	for _, path := range paths {
		fmt.Fprintln(stdout, path)
	}
	return err
}
