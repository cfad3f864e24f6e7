package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chronoforge/internal/constants"
	apperrors "github.com/julianstephens/chronoforge/internal/errors"
	"github.com/julianstephens/chronoforge/internal/models"
)

func TestClientCurrentSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/plan/current" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if _, err := uuid.Parse(r.Header.Get("X-Request-Id")); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{
			"blocks": [{"goal_id": "g1", "goal_name": "Read", "category": "study",
				"start": "2026-03-09T09:00:00Z", "end": "2026-03-09T11:00:00Z", "is_fixed": false}],
			"unmet": [],
			"capacity_by_day": [{"date": "2026-03-09", "total_hours": 15, "allocated_hours": 2, "spare_hours": 13}],
			"coaching_messages": ["Nice pace."]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, 0)
	doc, err := client.CurrentSchedule(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].GoalID != "g1" {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
	wantStart := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	if !doc.Blocks[0].Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", doc.Blocks[0].Start, wantStart)
	}
	if len(doc.CapacityByDay) != 1 || doc.CapacityByDay[0].SpareHours != 13 {
		t.Errorf("unexpected capacity: %+v", doc.CapacityByDay)
	}
}

func TestClientTokenEvaluatedPerCall(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{"signals": []}`))
	}))
	defer server.Close()

	token, loggedIn := "first", true
	client := NewClient(server.URL, func() (string, bool) { return token, loggedIn }, 0)

	ctx := context.Background()
	if _, err := client.Signals(ctx); err != nil {
		t.Fatal(err)
	}
	token = "second"
	if _, err := client.Signals(ctx); err != nil {
		t.Fatal(err)
	}
	loggedIn = false
	if _, err := client.Signals(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{"Bearer first", "Bearer second", ""}
	if len(seen) != len(want) {
		t.Fatalf("got %d requests, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d Authorization = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestClientFailureClassification(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind apperrors.Kind
		check    func(t *testing.T, err error)
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantKind: apperrors.KindUnauthorized,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream down"))
			},
			wantKind: apperrors.KindTransient,
			check: func(t *testing.T, err error) {
				var apiErr *apperrors.APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway || apiErr.Body != "upstream down" {
					t.Errorf("expected APIError 502, got %v", err)
				}
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"blocks": "nope"`))
			},
			wantKind: apperrors.KindTransient,
			check: func(t *testing.T, err error) {
				var decErr *apperrors.DecodeError
				if !errors.As(err, &decErr) {
					t.Errorf("expected DecodeError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(server.URL, nil, 0).CurrentSchedule(context.Background())
			if err == nil {
				t.Fatal("expected an error")
			}
			if kind := apperrors.Classify(err); kind != tt.wantKind {
				t.Errorf("Classify() = %v, want %v", kind, tt.wantKind)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, nil, 0).Tasks(context.Background())
	var netErr *apperrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if apperrors.Classify(err) != apperrors.KindTransient {
		t.Errorf("network failure should be transient")
	}
}

func TestClientSubmitCheckIn(t *testing.T) {
	var got models.CheckInCreate
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/checkins" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"assessment": "on plan", "motivational_message": "keep going", "check_in_id": "c1"}`))
	}))
	defer server.Close()

	block := models.ScheduledBlock{
		GoalID:   "g1",
		GoalName: "Read",
		Start:    time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC),
	}
	res, err := NewClient(server.URL, nil, 0).SubmitCheckIn(context.Background(), models.NewCheckInCreate(block, "read two chapters"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CheckInID != "c1" || res.Assessment != "on plan" {
		t.Errorf("unexpected result: %+v", res)
	}
	if got.BlockID != block.ID() || got.WhatIDid != "read two chapters" {
		t.Errorf("unexpected submission: %+v", got)
	}
}

func TestClientListCheckIns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"check_ins": [{"id": "c1", "block_id": "g1-1773046800.0",
			"start": "2026-03-09T09:00:00Z", "end": "2026-03-09T11:00:00Z",
			"created_at": "2026-03-09T11:30:00Z"}]}`))
	}))
	defer server.Close()

	records, err := NewClient(server.URL, nil, 0).ListCheckIns(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].BlockID != "g1-1773046800.0" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestNewClientTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "configured", timeout: 3 * time.Second, want: 3 * time.Second},
		{name: "zero uses default", timeout: 0, want: constants.DefaultTimeout},
		{name: "negative uses default", timeout: -time.Second, want: constants.DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("http://localhost", nil, tt.timeout)
			if c.HTTPClient == nil {
				t.Fatal("HTTPClient not set by NewClient")
			}
			if c.HTTPClient.Timeout != tt.want {
				t.Errorf("Timeout = %v, want %v", c.HTTPClient.Timeout, tt.want)
			}
		})
	}
}

func TestClientConcurrentFirstCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plan/current":
			w.Write([]byte(`{"blocks": []}`))
		case "/gmail/signals":
			w.Write([]byte(`{"signals": []}`))
		case "/canvas/tasks":
			w.Write([]byte(`{"tasks": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	// A fresh client shared by the same three calls a refresh fans out.
	client := NewClient(server.URL, nil, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 9)
	for i := 0; i < 3; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := client.CurrentSchedule(ctx)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := client.Signals(ctx)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := client.Tasks(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent call failed: %v", err)
		}
	}
}
