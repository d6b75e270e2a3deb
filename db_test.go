package main

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/bubbles/assets"
)

func TestMigrateIdempotent(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "nested", "bubbles.db"))
	if err != nil {
		t.Fatalf("openDB: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := migrate(db, assets.Migrations()); err != nil {
			t.Fatalf("migrate pass %d: %v", i, err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("%d migrations recorded, want 2", n)
	}
	if _, err := db.Exec(`INSERT INTO results (session_id, player, mode, date, score, level) VALUES ('g', 'p', 'classic', '2024-01-01', 1, 1)`); err != nil {
		t.Fatalf("results table missing: %v", err)
	}
}

func TestMigrateRollsBackBrokenFile(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "bubbles.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_broken.sql": {Data: []byte(`CREATE TABLE b (id INTEGER); NOT SQL;`)},
		"notes.txt":      {Data: []byte(`ignored`)},
	}
	if err := migrate(db, fsys); err == nil {
		t.Fatal("expected broken migration to fail")
	}
	var n int
	_ = db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n)
	if n != 1 {
		t.Fatalf("%d migrations recorded, want 1", n)
	}
	if _, err := db.Exec(`SELECT * FROM b`); err == nil {
		t.Fatal("table from the broken migration survived")
	}
}
