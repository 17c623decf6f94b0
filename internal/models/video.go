package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for upload dates
const DateLayout = "2006-01-02"

// WatchURLPrefix is prepended to a video ID to build its link
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// DefaultMaxViews is the exclusive upper view bound used when none is given
const DefaultMaxViews int64 = math.MaxInt64

// Date is a calendar date without time-of-day. The zero value means "unset".
type Date struct {
	time.Time
}

// NewDate builds a Date in UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// ParsePublishedAt extracts the date part of an RFC 3339 timestamp such as
// "2021-03-01T17:00:04Z", ignoring the time of day.
func ParsePublishedAt(s string) (Date, error) {
	datePart, _, _ := strings.Cut(s, "T")
	return ParseDate(datePart)
}

// String returns the date as YYYY-MM-DD, or an empty string when unset
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before reports whether d is earlier than other
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is later than other
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Compare returns -1, 0 or +1 like time.Time.Compare
func (d Date) Compare(other Date) int {
	return d.Time.Compare(other.Time)
}

// MarshalJSON encodes the date as "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// VideoRecord represents one video that passed the filter
type VideoRecord struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Views      int64  `json:"views"`
	UploadedAt Date   `json:"uploaded_at"`
	Link       string `json:"link"`
}

// NewVideoRecord builds a record with its watch link
func NewVideoRecord(id, title string, views int64, uploadedAt Date) VideoRecord {
	return VideoRecord{
		ID:         id,
		Title:      title,
		Views:      views,
		UploadedAt: uploadedAt,
		Link:       WatchURLPrefix + id,
	}
}

// CSVHeader lists the record fields in declaration order
var CSVHeader = []string{"id", "title", "views", "uploaded_at", "link"}

// CSVRow returns the record fields in CSVHeader order
func (v VideoRecord) CSVRow() []string {
	return []string{v.ID, v.Title, fmt.Sprintf("%d", v.Views), v.UploadedAt.String(), v.Link}
}

// VideoCollection maps a video ID to its record
type VideoCollection map[string]VideoRecord

// Ordered returns the records for the given IDs, skipping unknown ones
func (c VideoCollection) Ordered(order []string) []VideoRecord {
	videos := make([]VideoRecord, 0, len(order))
	for _, id := range order {
		if v, ok := c[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos
}

// SortField selects the sort key
type SortField string

const (
	SortByViews SortField = "views"
	SortByDate  SortField = "date"
)

// SortOptions controls the order of a filtered collection
type SortOptions struct {
	By        SortField `json:"sortBy"`
	Ascending bool      `json:"ascending"`
}

// FilterCriteria holds the view and date bounds for one run
type FilterCriteria struct {
	MinViews int64 `json:"minViews"`
	MaxViews int64 `json:"maxViews"`
	MinDate  Date  `json:"minDate"`
	MaxDate  Date  `json:"maxDate"`
}

// DefaultCriteria lets every video through
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		MinViews: 0,
		MaxViews: DefaultMaxViews,
	}
}

// Validate checks that the bounds describe a usable range
func (f FilterCriteria) Validate() error {
	if f.MinViews < 0 {
		return fmt.Errorf("min views must not be negative, got %d", f.MinViews)
	}
	if f.MaxViews <= f.MinViews {
		return fmt.Errorf("max views (%d) must be greater than min views (%d)", f.MaxViews, f.MinViews)
	}
	if !f.MinDate.IsZero() && !f.MaxDate.IsZero() && f.MaxDate.Before(f.MinDate) {
		return fmt.Errorf("max date %s is before min date %s", f.MaxDate, f.MinDate)
	}
	return nil
}

// MatchDate reports whether the upload date is within whichever bounds are set.
// Both bounds are inclusive.
func (f FilterCriteria) MatchDate(uploadedAt Date) bool {
	if !f.MinDate.IsZero() && uploadedAt.Before(f.MinDate) {
		return false
	}
	if !f.MaxDate.IsZero() && uploadedAt.After(f.MaxDate) {
		return false
	}
	return true
}

// MatchViews reports whether min <= views < max
func (f FilterCriteria) MatchViews(views int64) bool {
	return f.MinViews <= views && views < f.MaxViews
}

// Match applies both predicates
func (f FilterCriteria) Match(views int64, uploadedAt Date) bool {
	return f.MatchViews(views) && f.MatchDate(uploadedAt)
}

// PlaylistItem is one entry of a playlist page
type PlaylistItem struct {
	VideoID     string
	Title       string
	PublishedAt string
}

// PlaylistPage is one page of a playlist-items listing
type PlaylistPage struct {
	Items         []PlaylistItem
	NextPageToken string
}

// VideoDetails holds the snippet and statistics fields of a single video
type VideoDetails struct {
	ID           string
	ChannelID    string
	ChannelTitle string
	Views        int64
}
