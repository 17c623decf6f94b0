package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yt-filter/internal/models"
)

func testVideos() (models.VideoCollection, []string) {
	videos := models.VideoCollection{
		"v1": models.NewVideoRecord("v1", "First video", 300, models.NewDate(2021, 3, 1)),
		"v2": models.NewVideoRecord("v2", `Quotes "and", commas`, 150, models.NewDate(2020, 1, 1)),
	}
	return videos, []string{"v1", "v2"}
}

func TestWriteText(t *testing.T) {
	videos, order := testVideos()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, videos, order))
	assert.Equal(t,
		"First video: 300 - https://www.youtube.com/watch?v=v1\n"+
			"Quotes \"and\", commas: 150 - https://www.youtube.com/watch?v=v2\n",
		buf.String())
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteText(&buf, models.VideoCollection{}, nil)
	assert.ErrorIs(t, err, models.ErrEmptyResultExport)
	assert.Empty(t, buf.String())
}

func TestWriteHTML(t *testing.T) {
	videos := models.VideoCollection{
		"x": models.NewVideoRecord("x", "Rock & Roll <live>", 42, models.NewDate(2019, 6, 1)),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, videos, []string{"x"}))
	out := buf.String()

	assert.Contains(t, out, "<th>Title</th><th>Views</th><th>Uploaded at</th>")
	assert.Contains(t, out, `href="https://www.youtube.com/results?search_query=Rock&#43;%26&#43;Roll&#43;%3Clive%3E"`)
	assert.Contains(t, out, "Rock &amp; Roll &lt;live&gt;")
	assert.Contains(t, out, "<td>42</td><td>2019-06-01</td>")
	assert.NotContains(t, out, "<live>")
	assert.Equal(t, 2, strings.Count(out, "<tr>"))
}

func TestWriteHTML_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, nil, nil))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "<tr>"))
	assert.True(t, strings.HasPrefix(out, "<html>"))
	assert.Contains(t, out, "</table></body></html>")
}

func TestWriteHTML_Order(t *testing.T) {
	videos, _ := testVideos()

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, videos, []string{"v2", "v1"}))
	out := buf.String()
	assert.Less(t, strings.Index(out, "commas"), strings.Index(out, "First video"))
}

func TestWriteCSV(t *testing.T) {
	videos, order := testVideos()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, videos, order))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "title", "views", "uploaded_at", "link"},
		{"v1", "First video", "300", "2021-03-01", "https://www.youtube.com/watch?v=v1"},
		{"v2", `Quotes "and", commas`, "150", "2020-01-01", "https://www.youtube.com/watch?v=v2"},
	}, rows)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, models.VideoCollection{}, nil))
	assert.Equal(t, "id,title,views,uploaded_at,link\n", buf.String())
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	videos, order := testVideos()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, videos, order))

	var decoded models.VideoCollection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, videos, decoded)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "2021-03-01", raw["v1"]["uploaded_at"])
	assert.Equal(t, float64(300), raw["v1"]["views"])
}

func TestWriteJSON_Empty(t *testing.T) {
	for _, videos := range []models.VideoCollection{nil, {}} {
		var buf bytes.Buffer
		require.NoError(t, WriteJSON(&buf, videos, nil))
		assert.Equal(t, "{}\n", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "txt", want: FormatText},
		{in: "text", want: FormatText},
		{in: ".HTML", want: FormatHTML},
		{in: "htm", want: FormatHTML},
		{in: "csv", want: FormatCSV},
		{in: "json", want: FormatJSON},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormats(t *testing.T) {
	formats, err := ParseFormats(nil)
	require.NoError(t, err)
	assert.Equal(t, AllFormats, formats)

	formats, err = ParseFormats([]string{"csv", "json"})
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatCSV, FormatJSON}, formats)

	_, err = ParseFormats([]string{"csv", "pdf"})
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Some Channel.csv", FileName("Some Channel", FormatCSV))
	assert.Equal(t, "AC_DC.txt", FileName("AC/DC", FormatText))
	assert.Equal(t, "a_b.json", FileName(`a\b`, FormatJSON))
	assert.Equal(t, "videos.html", FileName("  ", FormatHTML))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	videos, order := testVideos()

	path, err := SaveCSV(dir, "Channel", videos, order)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Channel.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,title,views,uploaded_at,link\n"))

	// overwrite with a smaller collection
	_, err = SaveCSV(dir, "Channel", models.VideoCollection{}, nil)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,title,views,uploaded_at,link\n", string(data))
}

func TestSaveText_EmptyCreatesNoFile(t *testing.T) {
	dir := t.TempDir()

	_, err := SaveText(dir, "Channel", models.VideoCollection{}, nil)
	assert.ErrorIs(t, err, models.ErrEmptyResultExport)

	_, statErr := os.Stat(filepath.Join(dir, "Channel.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveAll(t *testing.T) {
	dir := t.TempDir()
	videos, order := testVideos()

	paths, err := SaveAll(dir, "Channel", AllFormats, videos, order)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Channel.txt"),
		filepath.Join(dir, "Channel.html"),
		filepath.Join(dir, "Channel.csv"),
		filepath.Join(dir, "Channel.json"),
	}, paths)

	jsonPath, err := SaveJSON(dir, "Again", videos, order)
	require.NoError(t, err)
	htmlPath, err := SaveHTML(dir, "Again", videos, order)
	require.NoError(t, err)
	assert.FileExists(t, jsonPath)
	assert.FileExists(t, htmlPath)
}

func TestSaveAll_EmptyCollection(t *testing.T) {
	dir := t.TempDir()

	paths, err := SaveAll(dir, "Empty", AllFormats, models.VideoCollection{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmptyResultExport)
	assert.Len(t, paths, 3)
	assert.NoFileExists(t, filepath.Join(dir, "Empty.txt"))
	assert.FileExists(t, filepath.Join(dir, "Empty.json"))
}

func TestSave_MissingDirectory(t *testing.T) {
	videos, order := testVideos()

	_, err := SaveJSON(filepath.Join(t.TempDir(), "missing"), "Channel", videos, order)
	assert.Error(t, err)
}

func TestWrite_Dispatch(t *testing.T) {
	videos, order := testVideos()

	for _, format := range AllFormats {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, format, videos, order), format)
		assert.NotEmpty(t, buf.String())
		assert.NotEmpty(t, format.ContentType())
	}
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), videos, order))
}
