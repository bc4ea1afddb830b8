package history

import (
	"testing"
	"time"

	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/executor"
)

func TestStats(t *testing.T) {
	m := newTestManager(t)

	list := collection.Request{ID: "list", Method: collection.MethodGet, Name: "list", URI: "http://localhost/items"}
	create := collection.Request{ID: "create", Method: collection.MethodPost, Name: "create", URI: "http://localhost/items"}

	record := func(req collection.Request, resp executor.Response) {
		t.Helper()
		if err := m.Record(req, resp); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	record(list, executor.Response{Status: intPtr(200), Duration: 100 * time.Millisecond, TotalSize: 10})
	record(list, executor.Response{Status: intPtr(500), Duration: 300 * time.Millisecond, TotalSize: 5})
	record(list, executor.Response{IsError: true, Cause: "refused", Duration: 200 * time.Millisecond})
	record(create, executor.Response{Status: intPtr(201), Duration: 50 * time.Millisecond, TotalSize: 2})

	stats, err := m.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 aggregates, got %d", len(stats))
	}
	if stats[0].RequestID != "create" {
		t.Errorf("Expected most recent request first, got %s", stats[0].RequestID)
	}

	s := stats[1]
	if s.TotalCalls != 3 || s.SuccessCount != 1 || s.ErrorCount != 1 || s.NetworkErrors != 1 {
		t.Errorf("Unexpected counts: %+v", s)
	}
	if s.AvgDuration != 200*time.Millisecond {
		t.Errorf("Expected 200ms average, got %s", s.AvgDuration)
	}
	if s.MinDuration != 100*time.Millisecond || s.MaxDuration != 300*time.Millisecond {
		t.Errorf("Unexpected bounds: %s %s", s.MinDuration, s.MaxDuration)
	}
	if s.TotalRespSize != 15 {
		t.Errorf("Expected 15 bytes, got %d", s.TotalRespSize)
	}
	if s.StatusCodes[200] != 1 || s.StatusCodes[500] != 1 || len(s.StatusCodes) != 2 {
		t.Errorf("Unexpected status codes: %v", s.StatusCodes)
	}
	if s.LastCalled.IsZero() {
		t.Error("Expected last called to be parsed")
	}
}

func TestStatsEmpty(t *testing.T) {
	m := newTestManager(t)
	stats, err := m.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("Expected no stats, got %d", len(stats))
	}
}
