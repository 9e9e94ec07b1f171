package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestDocuments_SaveLoadExists(t *testing.T) {
	repo := openTestStore(t).Documents()
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "dataModel.xml")
	if err != nil {
		t.Fatalf("exists (empty): %v", err)
	}
	if ok {
		t.Fatal("expected no document before save")
	}

	if _, err := repo.Load(ctx, "dataModel.xml"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load (empty): got %v, want ErrNotFound", err)
	}

	if err := repo.Save(ctx, "dataModel.xml", "<datamodel/>"); err != nil {
		t.Fatalf("save: %v", err)
	}

	ok, err = repo.Exists(ctx, "dataModel.xml")
	if err != nil || !ok {
		t.Fatalf("exists after save = %v, %v; want true, nil", ok, err)
	}
	got, err := repo.Load(ctx, "dataModel.xml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "<datamodel/>" {
		t.Errorf("load = %q, want %q", got, "<datamodel/>")
	}
}

func TestDocuments_SaveOverwrites(t *testing.T) {
	repo := openTestStore(t).Documents()
	ctx := context.Background()

	for _, body := range []string{"one", "two", "three"} {
		if err := repo.Save(ctx, "learner_competence_state", body); err != nil {
			t.Fatalf("save %q: %v", body, err)
		}
	}

	got, err := repo.Load(ctx, "learner_competence_state")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "three" {
		t.Errorf("load = %q, want three", got)
	}

	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("got %d keys, want 1 (upsert must not duplicate)", len(keys))
	}
}

func TestDocuments_KeysAndDelete(t *testing.T) {
	repo := openTestStore(t).Documents()
	ctx := context.Background()

	for _, k := range []string{"b", "a", "c"} {
		if err := repo.Save(ctx, k, k); err != nil {
			t.Fatalf("save %q: %v", k, err)
		}
	}
	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if strings.Join(keys, ",") != "a,b,c" {
		t.Errorf("keys = %v, want [a b c]", keys)
	}

	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	ok, _ := repo.Exists(ctx, "b")
	if ok {
		t.Error("b should be gone after delete")
	}
}

func TestDir_RoundTrip(t *testing.T) {
	d := Dir{Root: t.TempDir()}
	ctx := context.Background()

	if ok, _ := d.Exists(ctx, "models/dataModel.xml"); ok {
		t.Fatal("expected missing file")
	}
	if _, err := d.Load(ctx, "models/dataModel.xml"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load missing: got %v, want ErrNotFound", err)
	}
	if err := d.Save(ctx, "models/dataModel.xml", "<datamodel/>"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := d.Load(ctx, "models/dataModel.xml")
	if err != nil || got != "<datamodel/>" {
		t.Fatalf("load = %q, %v", got, err)
	}
}

func TestDir_KeyCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	d := Dir{Root: filepath.Join(root, "inner")}
	ctx := context.Background()

	if err := d.Save(ctx, "../outside.txt", "x"); err != nil {
		t.Fatalf("save: %v", err)
	}
	// The key is rooted inside Root, not next to it.
	if ok, _ := (Dir{Root: root}).Exists(ctx, "outside.txt"); ok {
		t.Error("key escaped the root directory")
	}
	if ok, _ := d.Exists(ctx, "outside.txt"); !ok {
		t.Error("expected file inside root")
	}
}

func TestLayered_FallbackAndWrites(t *testing.T) {
	ctx := context.Background()
	primary := NewMemory()
	fallback := NewMemory()
	_ = fallback.Save(ctx, "dataModel.xml", "from-disk")

	l := Layered{Primary: primary, Fallback: fallback}

	ok, err := l.Exists(ctx, "dataModel.xml")
	if err != nil || !ok {
		t.Fatalf("exists via fallback = %v, %v", ok, err)
	}
	got, err := l.Load(ctx, "dataModel.xml")
	if err != nil || got != "from-disk" {
		t.Fatalf("load via fallback = %q, %v", got, err)
	}

	if err := l.Save(ctx, "dataModel.xml", "imported"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ = l.Load(ctx, "dataModel.xml")
	if got != "imported" {
		t.Errorf("primary should shadow fallback, got %q", got)
	}
	fb, _ := fallback.Load(ctx, "dataModel.xml")
	if fb != "from-disk" {
		t.Errorf("fallback must not be written, got %q", fb)
	}
}

func TestLayered_MissingEverywhere(t *testing.T) {
	l := Layered{Primary: NewMemory(), Fallback: NewMemory()}
	if _, err := l.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
