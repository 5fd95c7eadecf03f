package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"credit-engine/internal/cache"
	"credit-engine/internal/transport/rest/middleware"
)

type fakeProgressCache struct {
	entries    []cache.ProgressEntry
	employerID string
	limit      int
}

func (c *fakeProgressCache) UpdateProgress(ctx context.Context, employerID, screeningID string, percent float64) error {
	return nil
}

func (c *fakeProgressCache) GetBoard(ctx context.Context, employerID string, limit int) ([]cache.ProgressEntry, error) {
	c.employerID = employerID
	c.limit = limit
	if limit < len(c.entries) {
		return c.entries[:limit], nil
	}
	return c.entries, nil
}

func (c *fakeProgressCache) Remove(ctx context.Context, employerID, screeningID string) error {
	return nil
}

func adminRequest(method, target, employerID string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(r.Context(), middleware.EmployerIDKey, employerID)
	return r.WithContext(ctx)
}

func TestProgressBoardDefaultLimit(t *testing.T) {
	board := &fakeProgressCache{entries: []cache.ProgressEntry{
		{ScreeningID: "scr-1", Percent: 80, Rank: 1},
		{ScreeningID: "scr-2", Percent: 40, Rank: 2},
	}}
	h := NewScreeningHandler(nil, board)

	w := httptest.NewRecorder()
	h.ProgressBoard(w, adminRequest("GET", "/v1/screenings/progress", "emp-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if board.employerID != "emp-1" {
		t.Fatalf("expected employer emp-1, got %q", board.employerID)
	}
	if board.limit != 20 {
		t.Fatalf("expected default limit 20, got %d", board.limit)
	}

	var body struct {
		Progress []cache.ProgressEntry `json:"progress"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Progress) != 2 || body.Progress[0].ScreeningID != "scr-1" {
		t.Fatalf("unexpected board: %+v", body.Progress)
	}
}

func TestProgressBoardLimitParam(t *testing.T) {
	board := &fakeProgressCache{entries: []cache.ProgressEntry{
		{ScreeningID: "scr-1", Percent: 80, Rank: 1},
		{ScreeningID: "scr-2", Percent: 40, Rank: 2},
	}}
	h := NewScreeningHandler(nil, board)

	w := httptest.NewRecorder()
	h.ProgressBoard(w, adminRequest("GET", "/v1/screenings/progress?limit=1", "emp-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if board.limit != 1 {
		t.Fatalf("expected limit 1, got %d", board.limit)
	}
}

func TestProgressBoardRequiresAdmin(t *testing.T) {
	h := NewScreeningHandler(nil, &fakeProgressCache{})

	w := httptest.NewRecorder()
	h.ProgressBoard(w, httptest.NewRequest("GET", "/v1/screenings/progress", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without admin context, got %d", w.Code)
	}
}
