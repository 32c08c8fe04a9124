package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStore_ConsentRoundTrip(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetConsent("v1")
	if err != nil || got != nil {
		t.Fatalf("expected no record, got %+v, %v", got, err)
	}

	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	if err := s.SaveConsent(Consent{VisitorID: "v1", Decision: "accept", DecidedAt: at}); err != nil {
		t.Fatalf("SaveConsent: %v", err)
	}

	got, err = s.GetConsent("v1")
	if err != nil {
		t.Fatalf("GetConsent: %v", err)
	}
	if got == nil || got.Decision != "accept" || !got.DecidedAt.Equal(at) {
		t.Fatalf("unexpected record %+v", got)
	}

	if err := s.SaveConsent(Consent{VisitorID: "v1", Decision: "refuse", DecidedAt: at}); err != nil {
		t.Fatalf("SaveConsent overwrite: %v", err)
	}
	got, _ = s.GetConsent("v1")
	if got.Decision != "refuse" {
		t.Errorf("expected overwrite, got %q", got.Decision)
	}

	if err := s.DeleteConsent("v1"); err != nil {
		t.Fatalf("DeleteConsent: %v", err)
	}
	if got, _ := s.GetConsent("v1"); got != nil {
		t.Errorf("record survived delete: %+v", got)
	}
}

func TestBoltStore_RejectsEmptyVisitor(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveConsent(Consent{Decision: "accept"}); err == nil {
		t.Fatal("expected error for empty visitor id")
	}
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	if err := s.SaveConsent(Consent{VisitorID: "v2", Decision: "accept"}); err != nil {
		t.Fatalf("SaveConsent: %v", err)
	}
	s.Close()

	s, err = NewBoltStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.GetConsent("v2")
	if err != nil || got == nil || got.Decision != "accept" {
		t.Fatalf("record lost across reopen: %+v, %v", got, err)
	}
}
