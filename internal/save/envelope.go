// Package save translates the game state to and from a durable blob under
// an explicit schema version, with a backup slot for rollback before
// destructive operations. Storage faults degrade: a load that fails in any
// way reads as "no save found" and gameplay keeps running on the in-memory
// state.
package save

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/michaelhills23/corgi-clicker/internal/game"
)

// Envelope wraps a persisted state with the metadata needed to load it
// later: a write timestamp and the schema version for migration dispatch.
// Pure data; the action set is never serialized.
type Envelope struct {
	ID        string     `json:"id,omitempty"`
	State     game.State `json:"state"`
	Timestamp int64      `json:"timestamp"`
	Version   int        `json:"version"`
}

// Encode wraps a state in an envelope and serializes it.
func Encode(s game.State) ([]byte, error) {
	env := Envelope{
		ID:        uuid.NewString(),
		State:     s,
		Timestamp: time.Now().UnixMilli(),
		Version:   s.SchemaVersion,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return data, nil
}

// Decode parses a persisted blob into a state. Two historical shapes are
// accepted: the enveloped form with the payload under a "state" key, and
// the older flat form where the payload is the state itself. Malformed
// input is logged and returns nil rather than an error; the caller treats
// it as "no save found".
func Decode(raw []byte) *game.State {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		slog.Warn("save blob is not valid JSON", "error", err)
		return nil
	}
	if len(probe) == 0 {
		slog.Warn("save blob is empty")
		return nil
	}

	payload := raw
	if nested, ok := probe["state"]; ok {
		payload = nested
	}

	var s game.State
	if err := json.Unmarshal(payload, &s); err != nil {
		slog.Warn("save payload does not parse", "error", err)
		return nil
	}
	return &s
}

// ValidEnvelope reports whether raw looks like a save blob: valid JSON with
// either a nested "state" field or a top-level "schemaVersion" field. Used
// by import to reject foreign files before anything is overwritten.
func ValidEnvelope(raw []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	_, nested := probe["state"]
	_, flat := probe["schemaVersion"]
	return nested || flat
}

// Timestamp extracts the write time from a blob, falling back to the
// state's own lastSaved stamp for flat-shape saves. Returns false when
// neither is present.
func Timestamp(raw []byte) (time.Time, bool) {
	var probe struct {
		Timestamp int64 `json:"timestamp"`
		State     *struct {
			LastSaved int64 `json:"lastSaved"`
		} `json:"state"`
		LastSaved int64 `json:"lastSaved"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return time.Time{}, false
	}

	switch {
	case probe.Timestamp > 0:
		return time.UnixMilli(probe.Timestamp), true
	case probe.State != nil && probe.State.LastSaved > 0:
		return time.UnixMilli(probe.State.LastSaved), true
	case probe.LastSaved > 0:
		return time.UnixMilli(probe.LastSaved), true
	}
	return time.Time{}, false
}
