package obsfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("three columns", func(t *testing.T) {
		t.Parallel()
		path := writeTempFile(t, "lc.dat", "1.0 0.98 0.01\n2.0 1.02 0.01\n3.0 0.99 0.02\n")
		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		want := Columns{
			Times:  []float64{1, 2, 3},
			Values: []float64{0.98, 1.02, 0.99},
			Sigmas: []float64{0.01, 0.01, 0.02},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("columns mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("comments and blank lines skipped", func(t *testing.T) {
		t.Parallel()
		content := strings.Join([]string{
			"# exported 2026-02-14",
			"",
			"1.0 0.98 0.01   # first night",
			"   ",
			"2.0 1.02 0.01",
		}, "\n")
		path := writeTempFile(t, "lc.dat", content)
		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got.Len() != 2 {
			t.Errorf("rows = %d, want 2", got.Len())
		}
	})

	t.Run("extra columns ignored", func(t *testing.T) {
		t.Parallel()
		path := writeTempFile(t, "lc.dat", "1.0 0.98 0.01 1.21 0\n")
		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got.Len() != 1 || got.Sigmas[0] != 0.01 {
			t.Errorf("columns = %+v", got)
		}
	})

	t.Run("too few columns names the line", func(t *testing.T) {
		t.Parallel()
		path := writeTempFile(t, "lc.dat", "1.0 0.98 0.01\n2.0 1.02\n")
		_, err := Read(path)
		if err == nil {
			t.Fatal("expected error for 2-column row")
		}
		if !strings.Contains(err.Error(), ":2:") {
			t.Errorf("error should name line 2, got: %v", err)
		}
	})

	t.Run("bad float names the column", func(t *testing.T) {
		t.Parallel()
		path := writeTempFile(t, "lc.dat", "1.0 flux 0.01\n")
		_, err := Read(path)
		if err == nil {
			t.Fatal("expected error for non-numeric value")
		}
		if !strings.Contains(err.Error(), "column 2") {
			t.Errorf("error should name column 2, got: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Read(filepath.Join(t.TempDir(), "missing.dat"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}

func TestIsObservationFile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want bool
	}{
		{"lc01.dat", true},
		{"rv01.txt", true},
		{"upload.OBS", true},
		{"notes.md", false},
		{"lc01.dat.swp", false},
	}
	for _, tt := range tests {
		if got := isObservationFile(tt.name); got != tt.want {
			t.Errorf("isObservationFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWatcher_EmitsChangeOnWrite(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "lc01.dat")
	if err := os.WriteFile(path, []byte("1.0 0.98 0.01\n"), 0o644); err != nil {
		t.Fatalf("write observation file: %v", err)
	}

	select {
	case change := <-w.Changes:
		if change.Kind != ChangeModified {
			t.Errorf("change kind = %v, want ChangeModified", change.Kind)
		}
		if filepath.Base(change.File) != "lc01.dat" {
			t.Errorf("change file = %q, want lc01.dat", change.File)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change emitted within 5s")
	}
}

func TestWatcher_StopWithUndeliveredChanges(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// More files than the change buffer holds, with nobody reading.
	for i := 0; i < 32; i++ {
		path := filepath.Join(dir, fmt.Sprintf("lc%02d.dat", i))
		if err := os.WriteFile(path, []byte("1.0 0.98 0.01\n"), 0o644); err != nil {
			t.Fatalf("write observation file: %v", err)
		}
	}
	// Let the events reach the watch loop before stopping.
	time.Sleep(250 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return with undelivered changes queued")
	}

	// The channel is closed after Stop; buffered changes drain, then ok
	// goes false.
	for {
		if _, ok := <-w.Changes; !ok {
			return
		}
	}
}
