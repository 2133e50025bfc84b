package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("storage")

const (
	serviceNameKey     = "serviceName"
	logoIDKey          = "logoID"
	extraKeyPrefix     = "extra."
	monitoringPropsKey = "monitoringProps"
)

// sqliteStorage is the sqlite implementation for the status page storage
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and starts the history retention cleaner.
// A zero retention keeps the history forever
func NewSQLiteStorage(dbPath string, retentionSeconds int) (*sqliteStorage, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every new connection to :memory: would see its own empty database
	db.SetMaxOpenConns(1)

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: retentionSeconds,
		cancelFunc:       cancel,
	}

	if retentionSeconds > 0 {
		s.startRetentionCleaner(ctx)
	}

	return s, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT NOT NULL PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS api_keys (
		id           TEXT    NOT NULL PRIMARY KEY,
		value        TEXT    NOT NULL DEFAULT '',
		enabled      INTEGER NOT NULL DEFAULT 1,
		created_date TEXT    NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		kind       TEXT NOT NULL,
		id         TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (kind, id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_updated_at ON events(updated_at);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// cleanExpiredEvents removes the history events older than the retention window
func (s *sqliteStorage) cleanExpiredEvents(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-time.Duration(s.retentionSeconds) * time.Second).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE updated_at < ?", cutoff)
	if err != nil {
		return err
	}

	numDeleted, _ := res.RowsAffected()
	if numDeleted > 0 {
		log.Debug("removed expired history events", "num", numDeleted, "cutoff", cutoff)
	}

	return nil
}

// LoadSettings reads the persisted settings record. API keys are returned in insertion order
func (s *sqliteStorage) LoadSettings(ctx context.Context) (common.Settings, error) {
	result := common.Settings{
		APIKeys: make([]common.APIKey, 0),
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings WHERE key <> ?", monitoringPropsKey)
	if err != nil {
		return common.Settings{}, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var key, value string
		err = rows.Scan(&key, &value)
		if err != nil {
			return common.Settings{}, err
		}

		switch {
		case key == serviceNameKey:
			result.ServiceName = value
		case key == logoIDKey:
			result.LogoID = value
		case strings.HasPrefix(key, extraKeyPrefix):
			if result.Extra == nil {
				result.Extra = make(map[string]json.RawMessage)
			}
			result.Extra[strings.TrimPrefix(key, extraKeyPrefix)] = json.RawMessage(value)
		}
	}
	err = rows.Err()
	if err != nil {
		return common.Settings{}, err
	}

	keyRows, err := s.db.QueryContext(ctx, "SELECT id, value, enabled, created_date FROM api_keys ORDER BY rowid")
	if err != nil {
		return common.Settings{}, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = keyRows.Close()
	}()

	for keyRows.Next() {
		var key common.APIKey
		err = keyRows.Scan(&key.ID, &key.Value, &key.Enabled, &key.CreatedDate)
		if err != nil {
			return common.Settings{}, err
		}

		result.APIKeys = append(result.APIKeys, key)
	}

	return result, keyRows.Err()
}

// SaveSettings replaces the persisted settings record with the provided one
func (s *sqliteStorage) SaveSettings(ctx context.Context, settings common.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, "DELETE FROM settings WHERE key <> ?", monitoringPropsKey)
	if err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}

	values := map[string]string{
		serviceNameKey: settings.ServiceName,
		logoIDKey:      settings.LogoID,
	}
	for key, value := range settings.Extra {
		values[extraKeyPrefix+key] = string(value)
	}
	for key, value := range values {
		_, err = tx.ExecContext(ctx, "INSERT INTO settings (key, value) VALUES (?, ?)", key, value)
		if err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM api_keys")
	if err != nil {
		return fmt.Errorf("failed to clear api keys: %w", err)
	}
	for _, key := range settings.APIKeys {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO api_keys (id, value, enabled, created_date)
			VALUES (?, ?, ?, ?)
		`, key.ID, key.Value, key.Enabled, key.CreatedDate)
		if err != nil {
			return fmt.Errorf("failed to save api key %s: %w", key.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEvent upserts an incident or a maintenance
func (s *sqliteStorage) SaveEvent(ctx context.Context, event common.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (kind, id, name, status, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			name=excluded.name,
			status=excluded.status,
			updated_at=excluded.updated_at
	`, string(event.Kind), event.ID, event.Name, event.Status, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	return nil
}

// DeleteEvent removes an incident or a maintenance
func (s *sqliteStorage) DeleteEvent(ctx context.Context, kind common.EventKind, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE kind = ? AND id = ?", string(kind), id)
	if err != nil {
		return err
	}

	numDeleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if numDeleted == 0 {
		return fmt.Errorf("%w: %s %s", common.ErrEventNotFound, kind, id)
	}

	return nil
}

// GetEvents returns all the events of the provided kind in insertion order
func (s *sqliteStorage) GetEvents(ctx context.Context, kind common.EventKind) ([]common.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, id, name, status, updated_at
		FROM events
		WHERE kind = ?
		ORDER BY rowid
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.Event, 0)
	for rows.Next() {
		var event common.Event
		var eventKind string

		err = rows.Scan(&eventKind, &event.ID, &event.Name, &event.Status, &event.UpdatedAt)
		if err != nil {
			return nil, err
		}

		event.Kind = common.EventKind(eventKind)
		results = append(results, event)
	}

	return results, rows.Err()
}

// SaveMonitoringProps stores the monitoring service configuration
func (s *sqliteStorage) SaveMonitoringProps(ctx context.Context, props common.MonitoringProps) error {
	buff, err := json.Marshal(props)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value
	`, monitoringPropsKey, string(buff))

	return err
}

// GetMonitoringProps returns the stored monitoring service configuration or nil if nothing was saved
func (s *sqliteStorage) GetMonitoringProps(ctx context.Context) (*common.MonitoringProps, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", monitoringPropsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	props := &common.MonitoringProps{}
	err = json.Unmarshal([]byte(value), props)
	if err != nil {
		return nil, fmt.Errorf("corrupted monitoring props: %w", err)
	}

	return props, nil
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	s.wg.Add(1)

	// max(RetentionSeconds/10, 60)
	intervalSec := s.retentionSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("running history retention cleanup")

				err := s.cleanExpiredEvents(ctx)
				if err != nil {
					log.Warn("failed to cleanup expired events", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
