package document

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added partial index on curve_keys.selected
const currentSchemaVersion = 1

// Editor surface names the scene can list as open.
const (
	EditorDopeSheet = "dopesheet"
	EditorGraph     = "graph"
	EditorNLA       = "nla"
)

// Document is one animation document backed by a SQLite file.
// A Document is not safe for concurrent use; the host model is a
// single user driving commands one at a time.
type Document struct {
	db  *sql.DB
	log *slog.Logger

	scene sceneState

	preSave  map[int]func() error
	nextHook int
}

// sceneState mirrors the singleton scene row. It is loaded once at
// Open and written through on every change, so reads never hit the
// database.
type sceneState struct {
	frame          int64
	activeActionID string
	activeAction   string
	editors        []string
	revision       int64
	savedRevision  int64
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(d *Document) {
		d.log = log
	}
}

// Open creates or opens a document database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Document, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	d := &Document{
		db:      db,
		log:     slog.Default(),
		preSave: make(map[int]func() error),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.loadScene(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	d.log.Debug("opened document", "path", path, "schema_version", currentSchemaVersion)
	return d, nil
}

// OpenMemory opens a fresh in-memory document. Used by tests and the
// conformance harness.
func OpenMemory(opts ...Option) (*Document, error) {
	return Open(":memory:", opts...)
}

// Close closes the database connection.
func (d *Document) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Frame returns the playhead position.
func (d *Document) Frame() int64 {
	return d.scene.frame
}

// SetFrame moves the playhead.
func (d *Document) SetFrame(frame int64) error {
	if _, err := d.db.Exec(`UPDATE scene SET frame = ? WHERE id = 1`, frame); err != nil {
		return fmt.Errorf("set frame: %w", err)
	}
	d.scene.frame = frame
	return nil
}

// CurrentFrame returns the playhead position. It is the selection
// fallback the commands consult.
func (d *Document) CurrentFrame() int64 {
	return d.Frame()
}

// Editors returns the open editor surfaces, in scene order.
func (d *Document) Editors() []string {
	out := make([]string, len(d.scene.editors))
	copy(out, d.scene.editors)
	return out
}

// SetEditors replaces the open editor surfaces.
func (d *Document) SetEditors(editors []string) error {
	joined := strings.Join(editors, ",")
	if _, err := d.db.Exec(`UPDATE scene SET editors = ? WHERE id = 1`, joined); err != nil {
		return fmt.Errorf("set editors: %w", err)
	}
	d.scene.editors = splitEditors(joined)
	return nil
}

// Dirty reports whether the document has unsaved changes.
func (d *Document) Dirty() bool {
	return d.scene.revision != d.scene.savedRevision
}

// AddPreSave attaches a hook that runs before every Save. Hooks run in
// attachment order; the first error aborts the save. The returned
// function detaches the hook.
func (d *Document) AddPreSave(fn func() error) func() {
	id := d.nextHook
	d.nextHook++
	d.preSave[id] = fn
	return func() { delete(d.preSave, id) }
}

// Save runs the pre-save hooks and then marks the current revision as
// saved. Content the hooks write (the linked-frame sync) lands before
// the mark, so a saved document is always consistent across its links.
func (d *Document) Save(ctx context.Context) error {
	for id := 0; id < d.nextHook; id++ {
		fn, ok := d.preSave[id]
		if !ok {
			continue
		}
		if err := fn(); err != nil {
			return fmt.Errorf("pre-save hook: %w", err)
		}
	}

	if _, err := d.db.ExecContext(ctx,
		`UPDATE scene SET saved_revision = revision WHERE id = 1`); err != nil {
		return fmt.Errorf("mark saved: %w", err)
	}
	d.scene.savedRevision = d.scene.revision
	d.log.Debug("saved document", "revision", d.scene.revision)
	return nil
}

// bumpRevision records a content mutation. View state (playhead,
// selection, editors) does not count.
func (d *Document) bumpRevision() error {
	if _, err := d.db.Exec(`UPDATE scene SET revision = revision + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}
	d.scene.revision++
	return nil
}

func (d *Document) loadScene() error {
	var (
		active  sql.NullString
		name    sql.NullString
		editors string
	)
	err := d.db.QueryRow(`
		SELECT s.frame, s.active_action, a.name, s.editors, s.revision, s.saved_revision
		FROM scene s
		LEFT JOIN actions a ON a.id = s.active_action
		WHERE s.id = 1
	`).Scan(&d.scene.frame, &active, &name, &editors, &d.scene.revision, &d.scene.savedRevision)
	if err != nil {
		return err
	}
	d.scene.activeActionID = active.String
	d.scene.activeAction = name.String
	d.scene.editors = splitEditors(editors)
	return nil
}

func splitEditors(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the selection index for databases created before the
// schema carried it. CREATE INDEX IF NOT EXISTS is a no-op on new
// databases.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_curve_keys_selected
		ON curve_keys(curve_id) WHERE selected = 1
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}
