package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/davrd/steward/internal/approval"
	"github.com/davrd/steward/internal/session"
)

const pendingStateFileMode = 0600

// Manager persists lightweight runtime state.
type Manager struct {
	pendingPath string
	mu          sync.Mutex
}

// NewManager creates a state manager under <baseDir>/state.
func NewManager(baseDir string) *Manager {
	return &Manager{
		pendingPath: filepath.Join(baseDir, "state", "pending.json"),
	}
}

// LoadPending reads a parked continuation from disk.
// Missing or malformed files are treated as nothing pending.
func (m *Manager) LoadPending() (*session.Continuation, error) {
	data, err := os.ReadFile(m.pendingPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cont session.Continuation
	if err := json.Unmarshal(data, &cont); err != nil {
		return nil, nil
	}
	if strings.TrimSpace(cont.RequestID) == "" || cont.Approval != approval.StatusPending {
		return nil, nil
	}
	return &cont, nil
}

// SavePending writes the continuation to disk so a later process can
// resume the suspended lifecycle. A nil continuation clears the file.
func (m *Manager) SavePending(cont *session.Continuation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cont == nil {
		err := os.Remove(m.pendingPath)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(m.pendingPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cont, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(m.pendingPath, data, pendingStateFileMode)
}
