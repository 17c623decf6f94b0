// Package export writes a filtered video collection as text, HTML, CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yt-filter/internal/models"
)

// Format names an output format by its file extension
type Format string

const (
	FormatText Format = "txt"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// AllFormats lists every supported format
var AllFormats = []Format{FormatText, FormatHTML, FormatCSV, FormatJSON}

// ParseFormat accepts a format name or extension
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "txt", "text":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType is the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// SearchURLPrefix is the results page an HTML title links to
const SearchURLPrefix = "https://www.youtube.com/results?search_query="

// ReadableLine formats one video as "{title}: {views} - {link}"
func ReadableLine(v models.VideoRecord) string {
	return fmt.Sprintf("%s: %d - %s", v.Title, v.Views, v.Link)
}

// WriteText writes one readable line per video in order.
// It returns ErrEmptyResultExport when there is nothing to write.
func WriteText(w io.Writer, videos models.VideoCollection, order []string) error {
	if len(videos) == 0 {
		return models.ErrEmptyResultExport
	}
	for _, v := range videos.Ordered(order) {
		if _, err := fmt.Fprintln(w, ReadableLine(v)); err != nil {
			return err
		}
	}
	return nil
}

var htmlTemplate = template.Must(template.New("videos").Funcs(template.FuncMap{
	"searchURL": func(title string) string {
		return SearchURLPrefix + url.QueryEscape(title)
	},
}).Parse(`<html><head><meta charset="utf-8"/></head><body><table border="1"><tr><th>Title</th><th>Views</th><th>Uploaded at</th></tr>
{{- range .}}
<tr><td><a target="_blank" href="{{searchURL .Title}}">{{.Title}}</a></td><td>{{.Views}}</td><td>{{.UploadedAt}}</td></tr>
{{- end}}
</table></body></html>
`))

// WriteHTML writes a standalone page with one table row per video
func WriteHTML(w io.Writer, videos models.VideoCollection, order []string) error {
	return htmlTemplate.Execute(w, videos.Ordered(order))
}

// WriteCSV writes a header row and one row per video in record field order
func WriteCSV(w io.Writer, videos models.VideoCollection, order []string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.CSVHeader); err != nil {
		return err
	}
	for _, v := range videos.Ordered(order) {
		if err := writer.Write(v.CSVRow()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes the whole collection keyed by video ID. Order is not used.
func WriteJSON(w io.Writer, videos models.VideoCollection, _ []string) error {
	if videos == nil {
		videos = models.VideoCollection{}
	}
	return json.NewEncoder(w).Encode(videos)
}

// Write renders one format to w
func Write(w io.Writer, format Format, videos models.VideoCollection, order []string) error {
	switch format {
	case FormatText:
		return WriteText(w, videos, order)
	case FormatHTML:
		return WriteHTML(w, videos, order)
	case FormatCSV:
		return WriteCSV(w, videos, order)
	case FormatJSON:
		return WriteJSON(w, videos, order)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// FileName builds "<name>.<ext>", replacing path separators in name
func FileName(name string, format Format) string {
	safe := strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if strings.TrimSpace(safe) == "" {
		safe = "videos"
	}
	return safe + "." + string(format)
}

// Save writes one format to dir and returns the file path. An existing file is overwritten.
func Save(dir, name string, format Format, videos models.VideoCollection, order []string) (path string, err error) {
	if format == FormatText && len(videos) == 0 {
		return "", models.ErrEmptyResultExport
	}

	path = filepath.Join(dir, FileName(name, format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := Write(file, format, videos, order); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// SaveText writes <name>.txt
func SaveText(dir, name string, videos models.VideoCollection, order []string) (string, error) {
	return Save(dir, name, FormatText, videos, order)
}

// SaveHTML writes <name>.html
func SaveHTML(dir, name string, videos models.VideoCollection, order []string) (string, error) {
	return Save(dir, name, FormatHTML, videos, order)
}

// SaveCSV writes <name>.csv
func SaveCSV(dir, name string, videos models.VideoCollection, order []string) (string, error) {
	return Save(dir, name, FormatCSV, videos, order)
}

// SaveJSON writes <name>.json
func SaveJSON(dir, name string, videos models.VideoCollection, order []string) (string, error) {
	return Save(dir, name, FormatJSON, videos, order)
}

// SaveAll writes every requested format. A failing format does not stop the
// others; the returned error joins all failures.
func SaveAll(dir, name string, formats []Format, videos models.VideoCollection, order []string) ([]string, error) {
	var (
		paths []string
		errs  []error
	)
	for _, format := range formats {
		path, err := Save(dir, name, format, videos, order)
		if err != nil {
			log.Error().Err(err).Str("format", string(format)).Msg("Export failed")
			errs = append(errs, fmt.Errorf("%s export: %w", format, err))
			continue
		}
		log.Info().Str("file", path).Int("videos", len(videos)).Msg("Exported videos")
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

// ParseFormats parses a list of format names, defaulting to all formats
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return AllFormats, nil
	}
	formats := make([]Format, 0, len(names))
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

