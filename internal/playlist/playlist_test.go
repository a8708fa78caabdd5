package playlist

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/opengrove/sheetset/internal/shared"
)

// fakeStore implements RangeSource and RangeSink against an in-memory sheet,
// applying successful writes so mutations can be chained.
type fakeStore struct {
	rows     [][]string
	readErr  error
	writeErr error
	reads    int
	writes   int
	written  [][]string // payload of the last write
}

func (s *fakeStore) ReadRows(ctx context.Context) ([][]string, error) {
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.rows, nil
}

func (s *fakeStore) WriteRows(ctx context.Context, rows [][]string) error {
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.written = rows
	s.rows = rows
	return nil
}

type fakeGate struct {
	ready bool
}

func (g *fakeGate) IsReady() bool { return g.ready }

func sheetRows(rows ...[]string) [][]string {
	all := [][]string{{HeaderSongID, HeaderSelected}}
	return append(all, rows...)
}

func newMutator(store *fakeStore, gate Gate) *Mutator {
	reader := NewReader(store, nil)
	writer := NewWriter(store, gate, nil)
	return NewMutator(reader, writer, nil)
}

func TestReader_FetchAll(t *testing.T) {
	t.Run("parses snapshot", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows([]string{"a", "TRUE"}, []string{"b", "FALSE"})}
		reader := NewReader(store, nil)

		entries, err := reader.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []Entry{
			{SongID: "a", Selected: true, Order: 0},
			{SongID: "b", Selected: false, Order: 1},
		}
		if !reflect.DeepEqual(entries, want) {
			t.Errorf("FetchAll() = %v, want %v", entries, want)
		}
	})

	t.Run("read failure is an error not an empty snapshot", func(t *testing.T) {
		store := &fakeStore{readErr: shared.ErrAccessDenied}
		reader := NewReader(store, nil)

		entries, err := reader.FetchAll(context.Background())
		if !errors.Is(err, shared.ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
		if entries != nil {
			t.Errorf("expected nil entries on failure, got %v", entries)
		}
	})
}

func TestWriter_ReplaceAll(t *testing.T) {
	t.Run("unauthenticated write performs no network call", func(t *testing.T) {
		store := &fakeStore{}
		writer := NewWriter(store, &fakeGate{ready: false}, nil)

		err := writer.ReplaceAll(context.Background(), []Entry{{SongID: "a", Selected: true}})
		if !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
		if store.writes != 0 {
			t.Errorf("expected 0 writes, got %d", store.writes)
		}
	})

	t.Run("persists sorted by order regardless of input sequence", func(t *testing.T) {
		store := &fakeStore{}
		writer := NewWriter(store, &fakeGate{ready: true}, nil)

		entries := []Entry{
			{SongID: "c", Selected: true, Order: 2},
			{SongID: "a", Selected: true, Order: 0},
			{SongID: "b", Selected: false, Order: 1},
		}
		if err := writer.ReplaceAll(context.Background(), entries); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"a", "TRUE"}, []string{"b", "FALSE"}, []string{"c", "TRUE"})
		if !reflect.DeepEqual(store.written, want) {
			t.Errorf("written = %v, want %v", store.written, want)
		}
	})

	t.Run("duplicate order values keep relative input order", func(t *testing.T) {
		store := &fakeStore{}
		writer := NewWriter(store, &fakeGate{ready: true}, nil)

		entries := []Entry{
			{SongID: "first", Selected: true, Order: 1},
			{SongID: "second", Selected: true, Order: 1},
			{SongID: "head", Selected: true, Order: 0},
		}
		if err := writer.ReplaceAll(context.Background(), entries); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"head", "TRUE"}, []string{"first", "TRUE"}, []string{"second", "TRUE"})
		if !reflect.DeepEqual(store.written, want) {
			t.Errorf("written = %v, want %v", store.written, want)
		}
	})

	t.Run("write failure propagates", func(t *testing.T) {
		store := &fakeStore{writeErr: shared.ErrTransport}
		writer := NewWriter(store, &fakeGate{ready: true}, nil)

		err := writer.ReplaceAll(context.Background(), nil)
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

func TestMutator_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id is added selected at the end", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows([]string{"a", "TRUE"})}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Toggle(ctx, "b"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"a", "TRUE"}, []string{"b", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("unselected entry is flipped in place", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows([]string{"a", "FALSE"}, []string{"b", "TRUE"})}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Toggle(ctx, "a"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"a", "TRUE"}, []string{"b", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("selected entry is removed outright", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows([]string{"a", "TRUE"}, []string{"b", "TRUE"})}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Toggle(ctx, "a"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"b", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("toggling off and on loses the original position", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows(
			[]string{"a", "TRUE"},
			[]string{"b", "TRUE"},
			[]string{"c", "TRUE"},
		)}
		m := newMutator(store, &fakeGate{ready: true})

		// a is at position 0; toggling it off then on re-adds it at the end.
		if err := m.Toggle(ctx, "a"); err != nil {
			t.Fatalf("toggle off: %v", err)
		}
		if err := m.Toggle(ctx, "a"); err != nil {
			t.Fatalf("toggle on: %v", err)
		}

		want := sheetRows([]string{"b", "TRUE"}, []string{"c", "TRUE"}, []string{"a", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("read failure aborts before any write", func(t *testing.T) {
		store := &fakeStore{readErr: shared.ErrTransport}
		m := newMutator(store, &fakeGate{ready: true})

		err := m.Toggle(ctx, "a")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
		if store.writes != 0 {
			t.Errorf("expected 0 writes after failed read, got %d", store.writes)
		}
	})

	t.Run("missing song id rejected", func(t *testing.T) {
		store := &fakeStore{}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Toggle(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if store.reads != 0 {
			t.Errorf("expected no reads, got %d", store.reads)
		}
	})
}

func TestMutator_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("appends selected at current count", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows([]string{"a", "FALSE"})}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Add(ctx, "b"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"a", "FALSE"}, []string{"b", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("no dedup check", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows([]string{"a", "TRUE"})}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Add(ctx, "a"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"a", "TRUE"}, []string{"a", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})
}

func TestMutator_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("re-indexes remaining entries", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows(
			[]string{"a", "TRUE"},
			[]string{"b", "FALSE"},
			[]string{"c", "TRUE"},
			[]string{"d", "TRUE"},
		)}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Remove(ctx, "b"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		entries := EntriesFromRows(store.rows)
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		for i, entry := range entries {
			if entry.Order != i {
				t.Errorf("entry %s has order %d, want %d", entry.SongID, entry.Order, i)
			}
		}

		want := sheetRows([]string{"a", "TRUE"}, []string{"c", "TRUE"}, []string{"d", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("unknown id writes snapshot back unchanged", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows([]string{"a", "TRUE"})}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Remove(ctx, "zz"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"a", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("read failure aborts before any write", func(t *testing.T) {
		store := &fakeStore{readErr: shared.ErrAccessDenied}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Remove(ctx, "a"); !errors.Is(err, shared.ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
		if store.writes != 0 {
			t.Errorf("expected 0 writes after failed read, got %d", store.writes)
		}
	})
}

func TestMutator_Reorder(t *testing.T) {
	ctx := context.Background()

	t.Run("drops ids absent from the sequence", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows(
			[]string{"A", "TRUE"},
			[]string{"B", "TRUE"},
			[]string{"C", "TRUE"},
		)}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Reorder(ctx, []string{"C", "A"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"C", "TRUE"}, []string{"A", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("recovers selected flags and defaults unknown ids to selected", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows(
			[]string{"a", "FALSE"},
			[]string{"b", "TRUE"},
		)}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Reorder(ctx, []string{"b", "a", "new"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := sheetRows([]string{"b", "TRUE"}, []string{"a", "FALSE"}, []string{"new", "TRUE"})
		if !reflect.DeepEqual(store.rows, want) {
			t.Errorf("rows = %v, want %v", store.rows, want)
		}
	})

	t.Run("read failure aborts before any write", func(t *testing.T) {
		store := &fakeStore{readErr: shared.ErrTransport}
		m := newMutator(store, &fakeGate{ready: true})

		if err := m.Reorder(ctx, []string{"a"}); !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
		if store.writes != 0 {
			t.Errorf("expected 0 writes after failed read, got %d", store.writes)
		}
	})

	t.Run("unauthenticated mutation reaches the gate not the sink", func(t *testing.T) {
		store := &fakeStore{rows: sheetRows([]string{"a", "TRUE"})}
		m := newMutator(store, &fakeGate{ready: false})

		if err := m.Reorder(ctx, []string{"a"}); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
		if store.writes != 0 {
			t.Errorf("expected 0 writes, got %d", store.writes)
		}
	})
}
