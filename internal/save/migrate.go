package save

import (
	"log/slog"

	"github.com/michaelhills23/corgi-clicker/internal/game"
)

// migrations[v] transforms a state from schema version v to v+1. Steps run
// in order on load; each must be safe on a state that already carries the
// later fields.
var migrations = []func(*game.State){
	migrateV0toV1,
}

// migrateV0toV1 introduced the schemaVersion stamp itself; pre-versioned
// saves carry no other differences.
func migrateV0toV1(s *game.State) {}

// Migrate brings a loaded state up to the current schema version.
// Idempotent: migrating an already-current state is a no-op.
func Migrate(s *game.State, loadedVersion int) {
	if loadedVersion >= game.CurrentSchemaVersion {
		s.SchemaVersion = game.CurrentSchemaVersion
		return
	}
	if loadedVersion < 0 {
		loadedVersion = 0
	}

	for v := loadedVersion; v < game.CurrentSchemaVersion; v++ {
		migrations[v](s)
		slog.Info("migrated save schema", "from", v, "to", v+1)
	}
	s.SchemaVersion = game.CurrentSchemaVersion
}
