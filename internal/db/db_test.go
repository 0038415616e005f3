package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		t.Errorf("table kv: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestKeyValue(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()
	ctx := context.Background()

	if _, ok, err := d.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}

	if err := d.Put(ctx, "k", "one"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := d.Put(ctx, "k", "two"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	v, ok, err := d.Get(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Fatalf("Get(k) = %q, %v, %v", v, ok, err)
	}

	if err := d.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := d.Get(ctx, "k"); ok {
		t.Error("key still present after Delete")
	}
}

func TestOpenFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seqedit.db")
	ctx := context.Background()

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := d.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	d.Close()

	d, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	if v, ok, _ := d.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("value not persisted: %q %v", v, ok)
	}
	if d.Path() != path {
		t.Errorf("Path() = %q", d.Path())
	}
}
