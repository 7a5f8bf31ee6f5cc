package save

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/michaelhills23/corgi-clicker/internal/game"
)

// Save slots. The primary slot is the live save; the backup slot is a copy
// taken before destructive operations (prestige, reset) so they can be
// rolled back.
const (
	SlotPrimary = "primary"
	SlotBackup  = "backup"
)

// Store persists save blobs in a SQLite database, one row per slot.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the save database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open save db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrateSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate save db: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrateSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := st.conn.Exec(schema)
	return err
}

func (st *Store) writeSlot(slot string, payload []byte) error {
	_, err := st.conn.Exec(
		"INSERT OR REPLACE INTO saves (slot, payload, updated_at) VALUES (?, ?, ?)",
		slot, string(payload), time.Now().UnixMilli(),
	)
	return err
}

func (st *Store) readSlot(slot string) ([]byte, error) {
	var payload string
	err := st.conn.Get(&payload, "SELECT payload FROM saves WHERE slot = ?", slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

// Save writes a state to the primary slot. Failures are reported so the
// caller can log them; the in-memory state stays authoritative either way.
func (st *Store) Save(s game.State) error {
	payload, err := Encode(s)
	if err != nil {
		return err
	}
	if err := st.writeSlot(SlotPrimary, payload); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// Load reads, decodes and migrates the primary slot. A missing slot, a
// storage fault, or a corrupted blob all read as (nil, nil): no save found,
// start fresh.
func (st *Store) Load() (*game.State, error) {
	payload, err := st.readSlot(SlotPrimary)
	if err != nil {
		slog.Error("reading save failed, starting fresh", "error", err)
		return nil, nil
	}
	if payload == nil {
		return nil, nil
	}

	s := Decode(payload)
	if s == nil {
		return nil, nil
	}

	Migrate(s, s.SchemaVersion)
	return s, nil
}

// HasSave reports whether a primary save exists.
func (st *Store) HasSave() bool {
	payload, err := st.readSlot(SlotPrimary)
	return err == nil && payload != nil
}

// CreateBackup copies the primary slot to the backup slot. Call before any
// destructive operation. Returns false if there is nothing to back up.
func (st *Store) CreateBackup() (bool, error) {
	payload, err := st.readSlot(SlotPrimary)
	if err != nil {
		return false, fmt.Errorf("read save for backup: %w", err)
	}
	if payload == nil {
		return false, nil
	}
	if err := st.writeSlot(SlotBackup, payload); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup copies the backup slot back over the primary slot. Returns
// false if no backup exists.
func (st *Store) RestoreBackup() (bool, error) {
	payload, err := st.readSlot(SlotBackup)
	if err != nil {
		return false, fmt.Errorf("read backup: %w", err)
	}
	if payload == nil {
		return false, nil
	}
	if err := st.writeSlot(SlotPrimary, payload); err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}
	return true, nil
}

// Export returns the raw primary blob for manual backup by the player.
func (st *Store) Export() ([]byte, error) {
	payload, err := st.readSlot(SlotPrimary)
	if err != nil {
		return nil, fmt.Errorf("export save: %w", err)
	}
	if payload == nil {
		return nil, errors.New("no save data to export")
	}
	return payload, nil
}

// Import validates a raw blob and commits it to the primary slot. Rejects
// anything that does not look like a save without touching storage.
func (st *Store) Import(raw []byte) error {
	if !ValidEnvelope(raw) {
		return errors.New("invalid save file format")
	}
	if err := st.writeSlot(SlotPrimary, raw); err != nil {
		return fmt.Errorf("import save: %w", err)
	}
	return nil
}

// Delete removes both slots.
func (st *Store) Delete() error {
	_, err := st.conn.Exec("DELETE FROM saves WHERE slot IN (?, ?)", SlotPrimary, SlotBackup)
	return err
}

// SaveAge returns how old the primary save blob is. False when no save
// exists or the blob carries no timestamp.
func (st *Store) SaveAge() (time.Duration, bool) {
	payload, err := st.readSlot(SlotPrimary)
	if err != nil || payload == nil {
		return 0, false
	}
	ts, ok := Timestamp(payload)
	if !ok {
		return 0, false
	}
	return time.Since(ts), true
}
