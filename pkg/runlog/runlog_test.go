package runlog

import (
	"fmt"
	"testing"

	"logvault/pkg/models"
)

func openTestRunlog(t *testing.T) {
	t.Helper()
	if err := Open(t.TempDir()); err != nil {
		t.Fatalf("open runlog: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func TestSaveAndListNewestFirst(t *testing.T) {
	openTestRunlog(t)

	for i := 1; i <= 3; i++ {
		report := models.RunReport{
			ID:      fmt.Sprintf("run-%d", i),
			Success: true,
			Fetched: i * 10,
		}
		if err := Save(report); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(got))
	}
	for i, want := range []string{"run-3", "run-2", "run-1"} {
		if got[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestListLimit(t *testing.T) {
	openTestRunlog(t)

	for i := 0; i < 5; i++ {
		if err := Save(models.RunReport{ID: fmt.Sprintf("run-%d", i)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	got, err := List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(got))
	}
	if got[0].ID != "run-4" {
		t.Fatalf("expected newest first, got %s", got[0].ID)
	}
}

func TestNotOpened(t *testing.T) {
	if Ready() {
		t.Fatal("expected runlog to be closed")
	}
	if err := Save(models.RunReport{ID: "x"}); err == nil {
		t.Fatal("expected error saving to closed runlog")
	}
	if _, err := List(0); err == nil {
		t.Fatal("expected error listing closed runlog")
	}
}
