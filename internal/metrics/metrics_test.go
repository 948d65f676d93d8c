package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksProviderAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordProviderAttempt("yahoo", 10*time.Millisecond, nil)
	rec.RecordProviderAttempt("yahoo", 15*time.Millisecond, errors.New("boom"))

	if got := rec.ProviderCalls("yahoo"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.ProviderErrors("yahoo"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("yahoo"); got != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", got)
	}

	snap := rec.Snapshot("yahoo")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("yahoo", 5*time.Second)
	rec.RecordRateLimit("yahoo", 0)

	if got := rec.RateLimitHits("yahoo"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("yahoo"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksLeagueFetchesAndCycles(t *testing.T) {
	rec := NewRecorder()
	rec.RecordLeagueFetch("NBA", OutcomeFetched)
	rec.RecordLeagueFetch("NBA", OutcomeFetched)
	rec.RecordLeagueFetch("NBA", OutcomeStale)
	rec.RecordRefreshCycle(time.Millisecond, nil)
	rec.RecordRefreshCycle(time.Millisecond, errors.New("all leagues failed"))

	if got := rec.LeagueFetches("NBA", OutcomeFetched); got != 2 {
		t.Fatalf("expected 2 fetched outcomes, got %d", got)
	}
	if got := rec.LeagueFetches("NBA", OutcomeStale); got != 1 {
		t.Fatalf("expected 1 stale outcome, got %d", got)
	}
	if got := rec.LeagueFetches("NFL", OutcomeFetched); got != 0 {
		t.Fatalf("expected no NFL outcomes, got %d", got)
	}
	total, failed := rec.RefreshCycles()
	if total != 2 || failed != 1 {
		t.Fatalf("expected 2 cycles with 1 failure, got %d/%d", total, failed)
	}
}

func TestRecorderTracksWebsocketClients(t *testing.T) {
	rec := NewRecorder()
	rec.AddWebsocketClients(1)
	rec.AddWebsocketClients(1)
	rec.AddWebsocketClients(-1)
	if got := rec.WebsocketClients(); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordLeagueFetch("NBA", OutcomeFetched)
	rec.RecordRefreshCycle(time.Millisecond, nil)
	rec.AddWebsocketClients(1)
	if rec.LeagueFetches("NBA", OutcomeFetched) != 0 || rec.WebsocketClients() != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}
