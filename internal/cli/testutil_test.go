package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/pausa/internal/migrate"
)

// testDB creates a private database for the test with all migrations applied.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := sql.Open("libsql", "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, cleanup
}

// testEnv points config, logs and archives at temporary directories and
// injects a private database.
func testEnv(t *testing.T) *sql.DB {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("PAUSA_LOCALE", "en")

	db, cleanup := testDB(t)
	t.Cleanup(cleanup)

	testDBOverride = db
	t.Cleanup(func() { testDBOverride = nil })
	return db
}

func testApp(t *testing.T) *AppContext {
	t.Helper()
	testEnv(t)

	app, err := NewAppContext(context.Background(), false)
	if err != nil {
		t.Fatalf("NewAppContext failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	runErr := fn()

	_ = w.Close()
	os.Stdout = oldStdout
	out := <-done
	_ = r.Close()
	return string(out), runErr
}

// pipeStdin replaces os.Stdin with data for the rest of the test.
func pipeStdin(t *testing.T, data []byte) {
	t.Helper()

	oldStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = oldStdin
		_ = r.Close()
	})

	go func() {
		_, _ = w.Write(data)
		_ = w.Close()
	}()
}
