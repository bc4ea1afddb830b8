package history

import (
	"database/sql"
	"fmt"
	"time"
)

// Stats aggregates the executions of one request
type Stats struct {
	RequestID    string
	RequestName  string
	Method       string
	TotalCalls   int
	SuccessCount int
	ErrorCount   int
	// NetworkErrors counts executions that never received a response
	NetworkErrors int
	AvgDuration   time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	TotalRespSize int64
	StatusCodes   map[int]int
	LastCalled    time.Time
}

// Stats returns one aggregate per request id, most recently called first
func (m *Manager) Stats() ([]Stats, error) {
	query := `
		SELECT
			request_id,
			MAX(request_name),
			MAX(method),
			COUNT(*),
			SUM(CASE WHEN response_status >= 200 AND response_status < 300 THEN 1 ELSE 0 END),
			SUM(CASE WHEN response_status >= 400 THEN 1 ELSE 0 END),
			SUM(CASE WHEN response_status IS NULL THEN 1 ELSE 0 END),
			AVG(duration_ms),
			MIN(duration_ms),
			MAX(duration_ms),
			SUM(response_size),
			MAX(timestamp)
		FROM history
		GROUP BY request_id
		ORDER BY MAX(timestamp) DESC, MAX(id) DESC
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	var list []Stats
	index := make(map[string]int)
	for rows.Next() {
		var (
			s          Stats
			name       sql.NullString
			avg        float64
			minMs      int64
			maxMs      int64
			lastCalled sql.NullString
		)
		if err := rows.Scan(
			&s.RequestID,
			&name,
			&s.Method,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.NetworkErrors,
			&avg,
			&minMs,
			&maxMs,
			&s.TotalRespSize,
			&lastCalled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}

		s.RequestName = name.String
		s.AvgDuration = time.Duration(avg * float64(time.Millisecond))
		s.MinDuration = time.Duration(minMs) * time.Millisecond
		s.MaxDuration = time.Duration(maxMs) * time.Millisecond
		s.LastCalled = parseTimestamp(lastCalled.String)
		s.StatusCodes = make(map[int]int)

		index[s.RequestID] = len(list)
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := m.fillStatusCodes(list, index); err != nil {
		return nil, err
	}
	return list, nil
}

func (m *Manager) fillStatusCodes(list []Stats, index map[string]int) error {
	rows, err := m.db.Query(`
		SELECT request_id, response_status, COUNT(*)
		FROM history
		WHERE response_status IS NOT NULL
		GROUP BY request_id, response_status
	`)
	if err != nil {
		return fmt.Errorf("failed to get status codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     string
			status int
			count  int
		)
		if err := rows.Scan(&id, &status, &count); err != nil {
			return fmt.Errorf("failed to scan status codes: %w", err)
		}
		if i, ok := index[id]; ok {
			list[i].StatusCodes[status] = count
		}
	}
	return rows.Err()
}

// parseTimestamp reads aggregate timestamps, which go-sqlite3 returns as
// text since the column type is lost
func parseTimestamp(value string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02T15:04:05Z"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
