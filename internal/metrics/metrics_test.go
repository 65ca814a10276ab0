package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksActionsByOutcome(t *testing.T) {
	rec := NewRecorder()
	rec.RecordAction("start", true)
	rec.RecordAction("start", false)
	rec.RecordAction("start", true)
	rec.RecordAction("pause", false)

	snap := rec.ActionSnapshot("start")
	if snap.Accepted != 2 || snap.Rejected != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if got := rec.ActionSnapshot("unknown"); got != (Snapshot{}) {
		t.Fatalf("expected empty snapshot for unknown action, got %+v", got)
	}

	totals := rec.Totals()
	if totals.Accepted != 2 || totals.Rejected != 2 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestRecorderTracksPersistAndPublish(t *testing.T) {
	rec := NewRecorder()
	rec.RecordPersist("sqlite", 10*time.Millisecond, nil)
	rec.RecordPersist("sqlite", 15*time.Millisecond, errors.New("boom"))
	rec.RecordPublish("nats", nil)
	rec.RecordPublish("hub", errors.New("closed"))
	rec.RecordDrop()
	rec.RecordClockExpiry()

	totals := rec.Totals()
	if totals.Persists != 2 || totals.PersistErrors != 1 {
		t.Fatalf("unexpected persist totals %+v", totals)
	}
	if totals.LastPersist != 15*time.Millisecond {
		t.Fatalf("expected last persist latency 15ms, got %s", totals.LastPersist)
	}
	if totals.Publishes != 2 || totals.PublishErrors != 1 {
		t.Fatalf("unexpected publish totals %+v", totals)
	}
	if totals.Drops != 1 || totals.ClockExpiries != 1 {
		t.Fatalf("unexpected drop/expiry totals %+v", totals)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordAction("start", true)
	rec.RecordPersist("fs", time.Millisecond, nil)
	rec.RecordPublish("hub", nil)
	rec.RecordDrop()
	rec.RecordClockExpiry()
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	if rec.Totals() != (Snapshot{}) {
		t.Fatalf("expected zero totals from nil recorder")
	}
}
