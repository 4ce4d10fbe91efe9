package deviceconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the current snapshot file format version.
const SnapshotVersion = 1

// Snapshot is a saved copy of a device's writable settings.
type Snapshot struct {
	Version     int          `yaml:"version"`
	Device      string       `yaml:"device"`
	Firmware    string       `yaml:"firmware,omitempty"`
	Timestamp   time.Time    `yaml:"timestamp"`
	Description string       `yaml:"description,omitempty"`
	Settings    ConfigUpdate `yaml:"settings"`
}

// CaptureSnapshot reads the device's current settings. WiFi credentials are
// only captured when includeWiFi is set, since they are written to disk in
// clear text.
func (c *Client) CaptureSnapshot(ctx context.Context, device, description string, includeWiFi bool) (*Snapshot, error) {
	settings, err := c.ReadSettings(ctx, AllSections(includeWiFi))
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration for snapshot: %w", err)
	}

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		Device:      device,
		Timestamp:   time.Now().UTC(),
		Description: description,
		Settings:    *settings,
	}

	if info, err := c.GetInfo(ctx); err == nil {
		snapshot.Firmware = info.BuildVersion
	}

	return snapshot, nil
}

// RestoreSnapshot writes every section stored in the snapshot and verifies it.
func (c *Client) RestoreSnapshot(ctx context.Context, snapshot *Snapshot, opts *VerificationOptions) *VerificationResult {
	if err := snapshot.Check(); err != nil {
		return &VerificationResult{Error: err}
	}
	return c.UpdateAndVerify(ctx, &snapshot.Settings, opts)
}

// Check reports whether the snapshot holds settings that can be written.
// Warnings are ignored.
func (s *Snapshot) Check() error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if s.Settings.IsEmpty() {
		return fmt.Errorf("snapshot contains no settings")
	}
	if errs := s.Settings.Validate(); len(errs) > 0 {
		if _, critical := SeparateWarningsAndErrors(errs); len(critical) > 0 {
			return fmt.Errorf("snapshot is invalid: %w", critical[0])
		}
	}
	return nil
}

// WriteSnapshotFile saves a snapshot as YAML. The file is written atomically
// and readable only by the owner.
func WriteSnapshotFile(path string, snapshot *Snapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// ReadSnapshotFile loads a snapshot written by WriteSnapshotFile.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, NewParseError("failed to parse snapshot", err)
	}
	if snapshot.Version > SnapshotVersion {
		return nil, NewValidationError(fmt.Sprintf("snapshot version %d is newer than supported version %d", snapshot.Version, SnapshotVersion))
	}

	return &snapshot, nil
}

// RollbackManager keeps in-memory snapshots so a failed update can be undone
type RollbackManager struct {
	client *Client

	// snapshots is capped at maxSnapshots, oldest dropped first
	snapshots    []*Snapshot
	maxSnapshots int

	mutex sync.RWMutex
}

// NewRollbackManager creates a new rollback manager for a client
func NewRollbackManager(client *Client) *RollbackManager {
	return &RollbackManager{
		client:       client,
		snapshots:    make([]*Snapshot, 0, 10),
		maxSnapshots: 10,
	}
}

// SaveSnapshot captures the sections that update is about to change.
func (rm *RollbackManager) SaveSnapshot(ctx context.Context, update *ConfigUpdate, description string) error {
	settings, err := rm.client.ReadSettings(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to fetch configuration for snapshot: %w", err)
	}

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		Timestamp:   time.Now().UTC(),
		Description: description,
		Settings:    *settings,
	}

	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	rm.snapshots = append(rm.snapshots, snapshot)
	if len(rm.snapshots) > rm.maxSnapshots {
		rm.snapshots = rm.snapshots[1:]
	}

	return nil
}

// GetLatestSnapshot returns the most recent snapshot, or nil if no snapshots exist
func (rm *RollbackManager) GetLatestSnapshot() *Snapshot {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	if len(rm.snapshots) == 0 {
		return nil
	}
	return rm.snapshots[len(rm.snapshots)-1]
}

// GetSnapshots returns all snapshots in chronological order (oldest first)
func (rm *RollbackManager) GetSnapshots() []*Snapshot {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	result := make([]*Snapshot, len(rm.snapshots))
	copy(result, rm.snapshots)
	return result
}

// SafeUpdate applies and verifies an update. If verification fails the
// sections it touched are restored from a snapshot taken just before.
func (rm *RollbackManager) SafeUpdate(ctx context.Context, update *ConfigUpdate, opts *VerificationOptions, description string) *SafeUpdateResult {
	result := &SafeUpdateResult{Description: description}

	if err := rm.SaveSnapshot(ctx, update, description); err != nil {
		result.Error = fmt.Errorf("failed to save pre-update snapshot: %w", err)
		return result
	}

	verifyResult := rm.client.UpdateAndVerify(ctx, update, opts)
	result.UpdateResult = verifyResult

	if verifyResult.Success {
		result.Success = true
		return result
	}

	result.RollbackAttempted = true
	snapshot := rm.GetLatestSnapshot()

	rollbackResult := rm.client.RestoreSnapshot(ctx, snapshot, opts)
	result.RollbackResult = rollbackResult

	if rollbackResult.Success {
		result.RollbackSucceeded = true
		result.Error = fmt.Errorf("update failed (verification: %w), rolled back to previous configuration", verifyResult.Error)
	} else {
		result.Error = fmt.Errorf("update failed (verification: %w) AND rollback failed: %w", verifyResult.Error, rollbackResult.Error)
	}

	return result
}

// SafeUpdateResult contains the results of a safe update operation
type SafeUpdateResult struct {
	Success     bool
	Description string

	UpdateResult *VerificationResult

	RollbackAttempted bool
	RollbackSucceeded bool
	RollbackResult    *VerificationResult

	Error error
}

// String returns a human-readable summary of the safe update result
func (r *SafeUpdateResult) String() string {
	if r.Success {
		return fmt.Sprintf("✅ Update succeeded: %s (verified in %d attempt(s))",
			r.Description, r.UpdateResult.Attempts)
	}

	if r.RollbackAttempted {
		if r.RollbackSucceeded {
			return fmt.Sprintf("⚠️  Update failed but successfully rolled back: %s\nUpdate error: %v\nRollback: successful after %d attempt(s)",
				r.Description, r.UpdateResult.Error, r.RollbackResult.Attempts)
		}
		return fmt.Sprintf("❌ Update failed and rollback failed: %s\nUpdate error: %v\nRollback error: %v",
			r.Description, r.UpdateResult.Error, r.RollbackResult.Error)
	}

	return fmt.Sprintf("❌ Update failed: %s\nError: %v", r.Description, r.Error)
}

// PromptBeforeDestructive returns a warning for updates that can cut the
// user off from the compass, or "" when the update is harmless.
func PromptBeforeDestructive(current *ConfigUpdate, update *ConfigUpdate) string {
	warnings := []string{}

	if update.WiFi != nil {
		warnings = append(warnings, "⚠️  Changing WiFi credentials may disconnect the compass from this network after it reboots")
		if update.WiFi.Password == "" {
			warnings = append(warnings, "⚠️  WARNING: an empty password joins an open network")
		}
	}

	if update.Advanced != nil {
		if update.Advanced.ServerMode && (current == nil || current.Advanced == nil || !current.Advanced.ServerMode) {
			warnings = append(warnings, "⚠️  Server mode moves configuration to Bluetooth; the web API may stop answering")
		}
		if current != nil && current.Advanced != nil && current.Advanced.Model != update.Advanced.Model {
			warnings = append(warnings, fmt.Sprintf("⚠️  Switching device model to %s changes which features the firmware enables", update.Advanced.Model.Label()))
		}
	}

	if len(warnings) == 0 {
		return ""
	}

	msg := "⚠️  POTENTIALLY DISRUPTIVE CHANGES DETECTED ⚠️\n\n"
	for _, w := range warnings {
		msg += w + "\n"
	}
	msg += "\nConsider 'compass-cfg backup' before proceeding.\n"

	return msg
}
