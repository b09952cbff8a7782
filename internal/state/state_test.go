package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSlotReadEmpty(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "doc.json"))
	if err != nil {
		t.Fatalf("NewFileSlot: %v", err)
	}
	_, ok, err := slot.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Error("expected ok=false for unwritten slot")
	}
}

func TestFileSlotRoundTrip(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "sub", "doc.json"))
	if err != nil {
		t.Fatalf("NewFileSlot: %v", err)
	}
	want := []byte(`[["p1",[]]]`)
	if err := slot.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, ok, err := slot.Read()
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if string(got) != string(want) {
		t.Errorf("got %q", got)
	}
}

func TestFileSlotOverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewFileSlot(filepath.Join(dir, "doc.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := slot.Write([]byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := slot.Write([]byte("two")); err != nil {
		t.Fatal(err)
	}
	got, _, _ := slot.Read()
	if string(got) != "two" {
		t.Errorf("got %q, want two", got)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, ".photospeak-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestSQLiteSlotRoundTrip(t *testing.T) {
	f, err := os.CreateTemp("", "photospeak-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	slot, err := OpenSQLite(f.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { slot.Close() })

	if _, ok, err := slot.Read(); err != nil || ok {
		t.Fatalf("empty read: ok=%v err=%v", ok, err)
	}

	if err := slot.Write([]byte("v1")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := slot.Write([]byte("v2")); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	got, ok, err := slot.Read()
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if string(got) != "v2" {
		t.Errorf("got %q, want v2", got)
	}
}

func TestOpenFactory(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(BackendFile, filepath.Join(dir, "doc.json")); err != nil {
		t.Errorf("file backend: %v", err)
	}
	slot, err := Open(BackendSQLite, filepath.Join(dir, "doc.db"))
	if err != nil {
		t.Errorf("sqlite backend: %v", err)
	} else {
		slot.Close()
	}
	if _, err := Open("redis", "x"); err == nil {
		t.Error("expected error for unknown backend")
	}
}
