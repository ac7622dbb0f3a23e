package checker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// ─── Mock Dependencies ──────────────────────────────────────────────────────

// mockGateway returns canned responses or errors per profile ID.
type mockGateway struct {
	mu        sync.Mutex
	responses map[string]map[string]any
	errs      map[string]error
	panicOn   string
	calls     []string

	// inFlight tracks the peak number of concurrent calls.
	inFlight    int32
	maxInFlight int32
	block       chan struct{} // when set, calls wait here before returning
}

func (m *mockGateway) RunAutomation(_ context.Context, profileID string, _ []map[string]any) (map[string]any, error) {
	current := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&m.maxInFlight)
		if current <= peak || atomic.CompareAndSwapInt32(&m.maxInFlight, peak, current) {
			break
		}
	}

	if m.block != nil {
		<-m.block
	}

	m.mu.Lock()
	m.calls = append(m.calls, profileID)
	m.mu.Unlock()

	if m.panicOn == profileID {
		panic("gateway exploded")
	}
	if err, ok := m.errs[profileID]; ok {
		return nil, err
	}
	if resp, ok := m.responses[profileID]; ok {
		return resp, nil
	}
	return map[string]any{}, nil
}

// staticScenario is a fixed step payload.
type staticScenario struct{}

func (staticScenario) Payload() []map[string]any {
	return []map[string]any{{"type": "gotoUrl", "config": map[string]any{"url": "https://example.com"}}}
}

func testProfiles(n int) []Profile {
	profiles := make([]Profile, n)
	for i := range profiles {
		profiles[i] = Profile{ID: fmt.Sprintf("profile-%02d", i), Label: fmt.Sprintf("label %d", i)}
	}
	return profiles
}

func authorizedResponse(name string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"variables": map[string]any{
				"service_authorized":   "true",
				"service_display_name": name,
			},
		},
	}
}

// ─── Tests ──────────────────────────────────────────────────────────────────

func TestRun_NoProfiles(t *testing.T) {
	c := New(&mockGateway{}, staticScenario{}, nil, 3)
	if _, err := c.Run(context.Background()); !errors.Is(err, ErrNoProfiles) {
		t.Fatalf("Run() error = %v, want ErrNoProfiles", err)
	}
}

func TestRun_OrderAndCompleteness(t *testing.T) {
	profiles := testProfiles(10)
	gw := &mockGateway{responses: map[string]map[string]any{}}
	for _, p := range profiles {
		gw.responses[p.ID] = authorizedResponse(" Bob ")
	}

	// Outcome must be identical across concurrency limits.
	for _, concurrency := range []int{1, len(profiles), len(profiles) * 2} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			c := New(gw, staticScenario{}, profiles, concurrency)
			results, err := c.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(results) != len(profiles) {
				t.Fatalf("len(results) = %d, want %d", len(results), len(profiles))
			}
			for i, r := range results {
				if r.ProfileID != profiles[i].ID {
					t.Errorf("results[%d].ProfileID = %q, want %q", i, r.ProfileID, profiles[i].ID)
				}
				if r.Label != profiles[i].Label {
					t.Errorf("results[%d].Label = %q, want %q", i, r.Label, profiles[i].Label)
				}
				if !r.Success {
					t.Errorf("results[%d].Success = false, want true", i)
				}
				if r.Details == nil || !r.Details.Authorized {
					t.Errorf("results[%d].Details.Authorized not true", i)
				}
				if r.Details != nil && (r.Details.DisplayName == nil || *r.Details.DisplayName != "Bob") {
					t.Errorf("results[%d].Details.DisplayName != Bob", i)
				}
			}
		})
	}
}

func TestRun_AllFailures(t *testing.T) {
	profiles := testProfiles(5)
	gw := &mockGateway{errs: map[string]error{}}
	for _, p := range profiles {
		gw.errs[p.ID] = errors.New("connection refused")
	}

	c := New(gw, staticScenario{}, profiles, 2)
	results, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, r := range results {
		if r.Success {
			t.Errorf("results[%d].Success = true, want false", i)
		}
		if r.Details != nil {
			t.Errorf("results[%d].Details present on failure", i)
		}
		if r.Error == "" {
			t.Errorf("results[%d].Error is empty", i)
		}
		if r.RawResponse == nil || len(r.RawResponse) != 0 {
			t.Errorf("results[%d].RawResponse = %v, want empty map", i, r.RawResponse)
		}
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	profiles := testProfiles(6)
	gw := &mockGateway{
		responses: map[string]map[string]any{},
		errs:      map[string]error{"profile-03": errors.New("selector timeout")},
	}
	for _, p := range profiles {
		if p.ID != "profile-03" {
			gw.responses[p.ID] = authorizedResponse("Alice")
		}
	}

	c := New(gw, staticScenario{}, profiles, 3)
	results, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, r := range results {
		if r.ProfileID == "profile-03" {
			if r.Success || r.Error == "" {
				t.Errorf("failing profile: Success=%v Error=%q, want failure with message", r.Success, r.Error)
			}
			continue
		}
		if !r.Success || r.Error != "" || r.Details == nil {
			t.Errorf("results[%d] affected by unrelated failure: %+v", i, r)
		}
	}
}

func TestRun_PanicBecomesFailedResult(t *testing.T) {
	profiles := testProfiles(3)
	gw := &mockGateway{
		responses: map[string]map[string]any{
			"profile-00": authorizedResponse("A"),
			"profile-02": authorizedResponse("C"),
		},
		panicOn: "profile-01",
	}

	c := New(gw, staticScenario{}, profiles, 1)
	results, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if results[1].Success {
		t.Error("panicking job reported success")
	}
	if results[1].Error == "" {
		t.Error("panicking job has empty error")
	}
	if !results[0].Success || !results[2].Success {
		t.Error("panic in one job affected surrounding jobs")
	}
}

func TestRun_ConcurrencyClampedToOne(t *testing.T) {
	profiles := testProfiles(4)
	gw := &mockGateway{}

	c := New(gw, staticScenario{}, profiles, -5)
	results, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != len(profiles) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(profiles))
	}
	if peak := atomic.LoadInt32(&gw.maxInFlight); peak > 1 {
		t.Errorf("max in-flight jobs = %d, want 1", peak)
	}
}

func TestRun_ConcurrencyLimitEnforced(t *testing.T) {
	profiles := testProfiles(8)
	gw := &mockGateway{block: make(chan struct{})}

	c := New(gw, staticScenario{}, profiles, 3)

	done := make(chan []ProfileCheckResult, 1)
	go func() {
		results, _ := c.Run(context.Background())
		done <- results
	}()

	// Let the first wave start, then release everyone.
	for range profiles {
		gw.block <- struct{}{}
	}
	results := <-done

	if len(results) != len(profiles) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(profiles))
	}
	if peak := atomic.LoadInt32(&gw.maxInFlight); peak > 3 {
		t.Errorf("max in-flight jobs = %d, want <= 3", peak)
	}
}

func TestRun_Timestamps(t *testing.T) {
	profiles := testProfiles(4)
	gw := &mockGateway{errs: map[string]error{"profile-02": errors.New("boom")}}

	c := New(gw, staticScenario{}, profiles, 2)
	results, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, r := range results {
		if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
			t.Errorf("results[%d] has zero timestamp", i)
		}
		if r.FinishedAt.Before(r.StartedAt) {
			t.Errorf("results[%d].FinishedAt %v before StartedAt %v", i, r.FinishedAt, r.StartedAt)
		}
	}
}

func TestRun_OnResultCallback(t *testing.T) {
	profiles := testProfiles(5)
	gw := &mockGateway{errs: map[string]error{"profile-01": errors.New("boom")}}

	var mu sync.Mutex
	seen := map[string]bool{}

	c := New(gw, staticScenario{}, profiles, 2)
	c.SetOnResult(func(r ProfileCheckResult) {
		mu.Lock()
		seen[r.ProfileID] = true
		mu.Unlock()
	})

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(seen) != len(profiles) {
		t.Errorf("callback saw %d results, want %d", len(seen), len(profiles))
	}
}

func TestRun_CancelledContextProducesFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	profiles := testProfiles(3)
	c := New(&mockGateway{}, staticScenario{}, profiles, 1)

	results, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v, want per-job failures", err)
	}
	if len(results) != len(profiles) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(profiles))
	}
	// With the context already cancelled, the semaphore refuses admission;
	// jobs fail individually instead of aborting the run.
	for i, r := range results {
		if r.Success {
			t.Errorf("results[%d].Success = true under cancelled context", i)
		}
		if r.Error == "" {
			t.Errorf("results[%d].Error empty under cancelled context", i)
		}
	}
}
