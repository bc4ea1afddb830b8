package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/executor"
	"github.com/studiowebux/hac/internal/migrations"
)

// timestampLayout is one of the formats go-sqlite3 parses back into
// time.Time for DATETIME columns
const timestampLayout = "2006-01-02 15:04:05"

// Entry is one recorded execution
type Entry struct {
	ID          int64
	Timestamp   time.Time
	RequestID   string
	RequestName string
	Method      string
	URL         string
	Headers     []collection.Header
	Body        string
	// Status is 0 when the request failed before a response was received
	Status          int
	ResponseHeaders []executor.Header
	ResponseBody    string
	Duration        time.Duration
	ResponseSize    int
	Error           string
}

// Manager stores executions in SQLite. It is safe for concurrent use; the
// pipeline records from its request goroutines.
type Manager struct {
	db  *sql.DB
	now func() time.Time
}

// NewManager opens (or creates) the database at dbPath and migrates it
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, now: time.Now}, nil
}

// Record implements executor.Recorder
func (m *Manager) Record(req collection.Request, resp executor.Response) error {
	headersJSON, err := json.Marshal(req.EnabledHeaders())
	if err != nil {
		return fmt.Errorf("failed to marshal headers: %w", err)
	}

	responseHeadersJSON, err := json.Marshal(resp.Headers)
	if err != nil {
		return fmt.Errorf("failed to marshal response headers: %w", err)
	}

	var body, responseBody sql.NullString
	if req.Body != nil {
		body = sql.NullString{String: *req.Body, Valid: true}
	}
	if resp.Body != nil {
		responseBody = sql.NullString{String: *resp.Body, Valid: true}
	}
	var status sql.NullInt64
	if resp.Status != nil {
		status = sql.NullInt64{Int64: int64(*resp.Status), Valid: true}
	}
	var cause sql.NullString
	if resp.IsError {
		cause = sql.NullString{String: resp.Cause, Valid: true}
	}

	query := `
		INSERT INTO history (
			timestamp, request_id, request_name, method, url, headers, body,
			response_status, response_headers, response_body,
			duration_ms, response_size, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = m.db.Exec(query,
		m.now().Local().Format(timestampLayout),
		req.ID,
		req.Name,
		string(req.Method),
		req.URI,
		string(headersJSON),
		body,
		status,
		string(responseHeadersJSON),
		responseBody,
		resp.Duration.Milliseconds(),
		resp.TotalSize,
		cause,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

const selectColumns = `
	SELECT id, timestamp, request_id, request_name, method, url, headers, body,
	       response_status, response_headers, response_body,
	       duration_ms, response_size, error
	FROM history
`

// Load returns the most recent entries, newest first. limit <= 0 means all.
func (m *Manager) Load(limit int) ([]Entry, error) {
	rows, err := m.db.Query(selectColumns+`ORDER BY timestamp DESC, id DESC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// LoadForRequest returns the entries of one request, newest first
func (m *Manager) LoadForRequest(requestID string, limit int) ([]Entry, error) {
	rows, err := m.db.Query(selectColumns+`WHERE request_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		requestID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load history for request: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry

	for rows.Next() {
		var (
			e                   Entry
			timestamp           time.Time
			requestName         sql.NullString
			headersJSON         string
			body                sql.NullString
			status              sql.NullInt64
			responseHeadersJSON string
			responseBody        sql.NullString
			durationMs          int64
			cause               sql.NullString
		)

		if err := rows.Scan(
			&e.ID, &timestamp, &e.RequestID, &requestName, &e.Method, &e.URL, &headersJSON, &body,
			&status, &responseHeadersJSON, &responseBody,
			&durationMs, &e.ResponseSize, &cause,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		e.Timestamp = timestamp
		e.RequestName = requestName.String
		e.Body = body.String
		e.Status = int(status.Int64)
		e.ResponseBody = responseBody.String
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.Error = cause.String

		if err := json.Unmarshal([]byte(headersJSON), &e.Headers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal headers: %w", err)
		}
		if err := json.Unmarshal([]byte(responseHeadersJSON), &e.ResponseHeaders); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response headers: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}

// Clear removes every entry
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Count returns the number of stored entries
func (m *Manager) Count() (int, error) {
	var count int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Close closes the database
func (m *Manager) Close() error {
	return m.db.Close()
}
