package bridge

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"storyloom/internal/story"
)

func testGraph() story.Graph {
	return story.Graph{
		"A": {Text: "Crossroads", Choices: []story.Choice{
			{Text: "North", Target: "B"},
			{Text: "South", Target: "C"},
		}},
		"B": {Text: "The end.", Choices: []story.Choice{{Text: "Rest", Ending: true}}},
		"C": {Text: "A loop.", Choices: []story.Choice{{Text: "Back", Target: "A"}}},
	}
}

func newStatePair(t *testing.T) (*Exporter, *Reader) {
	t.Helper()
	ch := NewChannel[StateEnvelope](filepath.Join(t.TempDir(), "state.json"))
	return NewExporter(ch, zap.NewNop()), NewReader(ch, zap.NewNop())
}

func TestStateRoundTrip(t *testing.T) {
	exporter, reader := newStatePair(t)
	graph := testGraph()
	meta := story.Metadata{Name: "Fixture", Start: "A"}

	if err := exporter.Export(meta, graph); err != nil {
		t.Fatalf("export: %v", err)
	}

	snap, ok := reader.Poll()
	if !ok {
		t.Fatalf("expected an update")
	}
	if !reflect.DeepEqual(snap.Graph, graph) {
		t.Fatalf("graph did not round-trip: %#v", snap.Graph)
	}
	if snap.Metadata.Name != "Fixture" {
		t.Fatalf("metadata did not round-trip: %#v", snap.Metadata)
	}
}

func TestMonotonicVisibility(t *testing.T) {
	exporter, reader := newStatePair(t)
	graph := testGraph()

	if err := exporter.Export(story.Metadata{}, graph); err != nil {
		t.Fatalf("export: %v", err)
	}
	snap, ok := reader.Poll()
	if !ok || snap.Version != 1 {
		t.Fatalf("expected version 1 update, got ok=%v snap=%+v", ok, snap)
	}
	if _, ok := reader.Poll(); ok {
		t.Fatalf("second poll without export must report no update")
	}
	if _, ok := reader.Poll(); ok {
		t.Fatalf("third poll without export must report no update")
	}

	graph["D"] = &story.Node{Text: "New scene"}
	if err := exporter.Export(story.Metadata{}, graph); err != nil {
		t.Fatalf("export: %v", err)
	}
	snap, ok = reader.Poll()
	if !ok || snap.Version != 2 {
		t.Fatalf("expected version 2 update, got ok=%v snap=%+v", ok, snap)
	}
	if _, ok := reader.Poll(); ok {
		t.Fatalf("poll after consuming version 2 must report no update")
	}
}

func TestReaderResilience(t *testing.T) {
	t.Run("absent state file", func(t *testing.T) {
		_, reader := newStatePair(t)
		if _, ok := reader.Poll(); ok {
			t.Fatalf("expected no update")
		}
	})

	t.Run("corrupt state file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		if err := os.WriteFile(path, []byte(`{"version": 3, "storym`), 0o600); err != nil {
			t.Fatalf("seeding: %v", err)
		}
		reader := NewReader(NewChannel[StateEnvelope](path), zap.NewNop())
		if _, ok := reader.Poll(); ok {
			t.Fatalf("corrupt envelope must read as no update")
		}
	})

	t.Run("schema mismatch", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		ch := NewChannel[StateEnvelope](path)
		env := StateEnvelope{Schema: 99, Version: 1, Graph: testGraph()}
		if err := ch.TryWrite(env); err != nil {
			t.Fatalf("seeding: %v", err)
		}
		reader := NewReader(ch, zap.NewNop())
		if _, ok := reader.Poll(); ok {
			t.Fatalf("schema mismatch must read as no update")
		}
	})

	t.Run("recovers after corruption is replaced", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		ch := NewChannel[StateEnvelope](path)
		reader := NewReader(ch, zap.NewNop())
		exporter := NewExporter(ch, zap.NewNop())

		if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
			t.Fatalf("seeding: %v", err)
		}
		if _, ok := reader.Poll(); ok {
			t.Fatalf("expected no update while corrupt")
		}
		if err := exporter.Export(story.Metadata{}, testGraph()); err != nil {
			t.Fatalf("export: %v", err)
		}
		if _, ok := reader.Poll(); !ok {
			t.Fatalf("expected update after exporter replaced corruption")
		}
	})
}

func TestInProgressExportIsInvisible(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	ch := NewChannel[StateEnvelope](path)
	exporter := NewExporter(ch, zap.NewNop())
	reader := NewReader(ch, zap.NewNop())

	if err := exporter.Export(story.Metadata{}, testGraph()); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, ok := reader.Poll(); !ok {
		t.Fatalf("expected first snapshot")
	}

	// Simulate an export caught mid-write: a partially written temp file
	// sits next to the target. The reader must keep seeing the prior
	// complete envelope.
	tmp := path + ".tmp.11111111-2222-3333-4444-555555555555"
	if err := os.WriteFile(tmp, []byte(`{"schema":1,"version":2,"storym`), 0o600); err != nil {
		t.Fatalf("seeding temp: %v", err)
	}
	if _, ok := reader.Poll(); ok {
		t.Fatalf("in-progress export must not be visible")
	}
	snap, ok := reader.Current()
	if !ok || snap.Version != 1 {
		t.Fatalf("expected prior envelope to stay readable, got ok=%v snap=%+v", ok, snap)
	}

	// The write completes: the temp file is renamed into place and the
	// new envelope becomes visible in full.
	if err := exporter.Export(story.Metadata{}, testGraph()); err != nil {
		t.Fatalf("export: %v", err)
	}
	snap, ok = reader.Poll()
	if !ok || snap.Version != 2 {
		t.Fatalf("expected version 2 after completed export, got ok=%v snap=%+v", ok, snap)
	}
}

func TestExporterResumesVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ch := NewChannel[StateEnvelope](path)

	first := NewExporter(ch, zap.NewNop())
	for range 3 {
		if err := first.Export(story.Metadata{}, testGraph()); err != nil {
			t.Fatalf("export: %v", err)
		}
	}

	second := NewExporter(ch, zap.NewNop())
	if err := second.Export(story.Metadata{}, testGraph()); err != nil {
		t.Fatalf("export: %v", err)
	}
	if second.Version() != 4 {
		t.Fatalf("expected restarted exporter to continue at version 4, got %d", second.Version())
	}
}

func TestExportedSnapshotIsDetached(t *testing.T) {
	exporter, reader := newStatePair(t)
	graph := testGraph()
	if err := exporter.Export(story.Metadata{}, graph); err != nil {
		t.Fatalf("export: %v", err)
	}

	// Mutating the editor's graph after export must not affect what the
	// reader decodes, and mutating the snapshot must not reach back.
	graph["A"].Text = "mutated"
	snap, ok := reader.Poll()
	if !ok {
		t.Fatalf("expected update")
	}
	if snap.Graph["A"].Text != "Crossroads" {
		t.Fatalf("snapshot aliased editor graph")
	}
}
