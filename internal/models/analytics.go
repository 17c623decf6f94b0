package models

import "time"

// RunSummary aggregates the filtered videos of a run
type RunSummary struct {
	TotalVideos  int       `json:"totalVideos"`
	TotalViews   int64     `json:"totalViews"`
	AverageViews float64   `json:"averageViews"`
	TimeRange    TimeRange `json:"timeRange"`
}

// TimeRange represents the upload period covered by the videos
type TimeRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Summarize computes the summary of a collection
func Summarize(videos VideoCollection) RunSummary {
	summary := RunSummary{TotalVideos: len(videos)}
	if len(videos) == 0 {
		return summary
	}

	var earliest, latest Date
	for _, v := range videos {
		summary.TotalViews += v.Views
		if earliest.IsZero() || v.UploadedAt.Before(earliest) {
			earliest = v.UploadedAt
		}
		if latest.IsZero() || v.UploadedAt.After(latest) {
			latest = v.UploadedAt
		}
	}

	summary.AverageViews = float64(summary.TotalViews) / float64(len(videos))
	summary.TimeRange = TimeRange{
		StartDate: earliest.String(),
		EndDate:   latest.String(),
	}
	return summary
}

// FilterRun is the archived outcome of one run
type FilterRun struct {
	ID         string          `json:"id"`
	Channel    Channel         `json:"channel"`
	PlaylistID string          `json:"playlistId"`
	Criteria   FilterCriteria  `json:"criteria"`
	Sort       SortOptions     `json:"sort"`
	Videos     VideoCollection `json:"videos"`
	Order      []string        `json:"order"`
	Summary    RunSummary      `json:"summary"`
	Timestamp  time.Time       `json:"timestamp"`
}
