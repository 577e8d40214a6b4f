package app

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"nse-strike-analyzer/database"
)

// Checkpoint persists delivery-driver progress to a side file so an
// interrupted multi-hour batch can resume instead of restarting. It wraps
// the driver from outside; the vectorized reduction scanner runs to
// completion in one pass and never checkpoints.
type Checkpoint struct {
	path string
}

// CheckpointState is the saved cursor: how many symbols are done and the
// rows assembled so far (rows are only persisted at the end of the run, so
// they ride along in the checkpoint)
type CheckpointState struct {
	Month     string                            `json:"month"`
	NextIndex int                               `json:"next_index"`
	Rows      []*database.StrikeSelectionResult `json:"rows"`
	UpdatedAt time.Time                         `json:"updated_at"`
}

// NewCheckpoint creates a checkpoint bound to a side file
func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{path: path}
}

// Save writes the state atomically (temp file + rename)
func (c *Checkpoint) Save(state CheckpointState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// Load reads a previously saved state. Returns ok=false when there is no
// usable checkpoint: missing/corrupt file, different month, or older than
// the freshness limit.
func (c *Checkpoint) Load(month string) (CheckpointState, bool) {
	var state CheckpointState

	data, err := os.ReadFile(c.path)
	if err != nil {
		return state, false
	}
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("⚠️  Ignoring corrupt checkpoint %s: %v", c.path, err)
		return CheckpointState{}, false
	}

	if state.Month != month {
		log.Printf("⚠️  Ignoring checkpoint for different month %s", state.Month)
		return CheckpointState{}, false
	}
	if time.Since(state.UpdatedAt) > database.CheckpointMaxAge {
		log.Printf("⚠️  Ignoring stale checkpoint from %s", state.UpdatedAt.Format(time.RFC3339))
		return CheckpointState{}, false
	}

	return state, true
}

// Clear removes the checkpoint file after a successful run
func (c *Checkpoint) Clear() {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to remove checkpoint %s: %v", c.path, err)
	}
}
