package filter

import (
	"cmp"
	"slices"

	"github.com/yt-filter/internal/models"
)

// SortVideos returns the collection's IDs ordered by views (default) or upload
// date, descending unless opts.Ascending is set. Equal keys are ordered by ID,
// so a descending order is always the exact reverse of the ascending one.
func SortVideos(videos models.VideoCollection, opts models.SortOptions) []string {
	order := make([]string, 0, len(videos))
	for id := range videos {
		order = append(order, id)
	}

	compare := func(a, b string) int {
		va, vb := videos[a], videos[b]
		var c int
		if opts.By == models.SortByDate {
			c = va.UploadedAt.Compare(vb.UploadedAt)
		} else {
			c = cmp.Compare(va.Views, vb.Views)
		}
		if c == 0 {
			c = cmp.Compare(a, b)
		}
		if !opts.Ascending {
			c = -c
		}
		return c
	}

	slices.SortStableFunc(order, compare)
	return order
}
