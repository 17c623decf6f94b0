package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
)

// ErrRunNotFound is returned when no archived run exists for a channel
var ErrRunNotFound = errors.New("run not found")

// Database archives filter runs in SQLite Cloud
type Database struct {
	db *sqlitecloud.SQCloud
}

// NewDatabase creates a new database connection
func NewDatabase(dbPath string) (*Database, error) {
	log.Info().Str("db", maskConnectionString(dbPath)).Msg("Connecting to SQLite Cloud database")

	db, err := sqlitecloud.Connect(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}

	database := &Database{
		db: db,
	}

	if err := database.createTables(); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

// maskConnectionString hides the API key in logs
func maskConnectionString(connStr string) string {
	if prefix, _, found := strings.Cut(connStr, "apikey="); found {
		return prefix + "apikey=***"
	}
	return connStr
}

func (d *Database) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS filter_runs (
			id TEXT PRIMARY KEY,
			channel_title TEXT NOT NULL,
			playlist_id TEXT NOT NULL,
			criteria TEXT NOT NULL,
			run_data TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_filter_runs_channel_title ON filter_runs(channel_title)`,
	}

	for _, table := range tables {
		if err := d.db.Execute(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// StoreRun stores a run, assigning it an ID when it has none
func (d *Database) StoreRun(run *FilterRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	criteria, err := json.Marshal(run.Criteria)
	if err != nil {
		return fmt.Errorf("failed to encode criteria: %w", err)
	}
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	sql := `INSERT INTO filter_runs (id, channel_title, playlist_id, criteria, run_data)
			VALUES (?, ?, ?, ?, ?)`

	if err := d.db.ExecuteArray(sql, []interface{}{run.ID, run.Channel.Title, run.PlaylistID, string(criteria), string(data)}); err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}

	log.Info().Str("run_id", run.ID).Str("channel", run.Channel.Title).Msg("Stored filter run")
	return nil
}

// GetLatestRun retrieves the most recent run for a channel title
func (d *Database) GetLatestRun(channelTitle string) (*FilterRun, error) {
	sql := `SELECT run_data FROM filter_runs
			WHERE channel_title = ?
			ORDER BY created_at DESC LIMIT 1`

	result, err := d.db.SelectArray(sql, []interface{}{channelTitle})
	if err != nil {
		return nil, err
	}

	if result.GetNumberOfRows() == 0 {
		return nil, fmt.Errorf("%w: channel %s", ErrRunNotFound, channelTitle)
	}

	runData, err := result.GetStringValue(0, 0)
	if err != nil {
		return nil, err
	}

	var run FilterRun
	if err := json.Unmarshal([]byte(runData), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
