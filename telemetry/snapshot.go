package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the state of every vessel at one tick.
type Snapshot struct {
	Version int     `json:"version"`
	Seed    uint64  `json:"seed"`
	Tick    int32   `json:"tick"`
	SimTime float64 `json:"sim_time"`

	Vessels []VesselState `json:"vessels"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// VesselState holds one vessel's state.
type VesselState struct {
	ID     uint32     `json:"id"`
	Role   string     `json:"role"` // player, enemy or torpedo
	Pos    [3]float64 `json:"pos"`
	Vel    [3]float64 `json:"vel"`
	Yaw    float64    `json:"yaw"`
	Radius float64    `json:"radius"`

	HitPoints float64 `json:"hp,omitempty"`
	Diesel    float64 `json:"diesel,omitempty"`
	Battery   float64 `json:"battery,omitempty"`
	Ballast   float64 `json:"ballast,omitempty"`
}

// Speed returns the magnitude of the vessel's velocity.
func (v VesselState) Speed() float64 {
	return r3.Norm(r3.Vec{X: v.Vel[0], Y: v.Vel[1], Z: v.Vel[2]})
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
