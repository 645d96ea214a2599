package points

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing test CSV: %v", err)
	}
	return path
}

func TestReadRecords(t *testing.T) {
	path := writeCSV(t, "species,x,y\nspA,1.5,2.5\nspA,,3.0\nspB,4.0,5.0\n")

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Species != "spA" || *records[0].X != 1.5 || *records[0].Y != 2.5 {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].X != nil {
		t.Errorf("blank cell should unmarshal to nil, got %v", *records[1].X)
	}
}

func TestReadRecordsMissingFile(t *testing.T) {
	if _, err := ReadRecords(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSetFromRecords(t *testing.T) {
	path := writeCSV(t, "species,x,y\nspA,1,2\nspA,,9\nspA,3,4\nspB,5,6\nspB,7,8\n")
	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}

	s, err := SetFromRecords(records, "spA", "env1", "env2")
	if err != nil {
		t.Fatalf("SetFromRecords failed: %v", err)
	}
	// Two complete spA rows; the blank-x row is dropped.
	if s.Len() != 2 {
		t.Errorf("expected 2 rows for spA, got %d", s.Len())
	}

	// A label matching no rows is caller misuse, not a request for the
	// pooled table.
	var invalid *InvalidInputError
	if _, err := SetFromRecords(records, "spC", "env1", "env2"); !errors.As(err, &invalid) {
		t.Errorf("expected InvalidInputError for unmatched label, got %v", err)
	}
}

func TestBackgroundFromRecords(t *testing.T) {
	labeled := writeCSV(t, "species,x,y\nspA,1,2\nspA,3,4\nspB,5,6\nspB,7,8\n")
	records, err := ReadRecords(labeled)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}

	// Per-species rows win when the label is present.
	bg, err := BackgroundFromRecords(records, "spA", "env1", "env2")
	if err != nil {
		t.Fatalf("BackgroundFromRecords failed: %v", err)
	}
	if bg.Len() != 2 {
		t.Errorf("expected 2 spA background rows, got %d", bg.Len())
	}

	// A shared table without per-species labels serves every species.
	shared := writeCSV(t, "species,x,y\nbackground,1,2\nbackground,3,4\nbackground,5,6\n")
	records, err = ReadRecords(shared)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	bg, err = BackgroundFromRecords(records, "spA", "env1", "env2")
	if err != nil {
		t.Fatalf("BackgroundFromRecords fallback failed: %v", err)
	}
	if bg.Len() != 3 {
		t.Errorf("expected all 3 shared rows, got %d", bg.Len())
	}
}

func TestSetFromAllRecords(t *testing.T) {
	path := writeCSV(t, "species,x,y\nspA,1,2\nspB,3,4\nspB,5,6\n")
	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}

	extent, err := SetFromAllRecords(records, "background", "env1", "env2")
	if err != nil {
		t.Fatalf("SetFromAllRecords failed: %v", err)
	}
	if extent.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", extent.Len())
	}
}
