package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Slot identifies one of the three staged input files.
type Slot string

const (
	SlotEnrollment Slot = "enrollment"
	SlotMonthly    Slot = "monthly"
	SlotSites      Slot = "sites"
)

// AllSlots lists every input slot.
var AllSlots = []Slot{SlotEnrollment, SlotMonthly, SlotSites}

// ParseSlot validates a slot name from a URL path segment.
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(s)) {
	case SlotEnrollment:
		return SlotEnrollment, nil
	case SlotMonthly:
		return SlotMonthly, nil
	case SlotSites:
		return SlotSites, nil
	default:
		return "", fmt.Errorf("unknown input slot: %s", s)
	}
}

var (
	// ErrNotStaged is returned when a slot has no uploaded file.
	ErrNotStaged = errors.New("input not staged")
	// ErrUnsupportedType is returned for uploads that are not tabular exports.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrUploadTooLarge is returned when an upload exceeds the size limit.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)

var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// Manager stages uploaded input files per session.
type Manager struct {
	uploadsDir string
	logger     *slog.Logger
}

// NewManager creates a file manager rooted at the uploads directory.
func NewManager(uploadsDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{uploadsDir: uploadsDir, logger: logger}
}

// Stage writes an uploaded file into the session's slot, replacing any
// previous upload for that slot. The original filename only contributes its
// extension; the stored name is always the slot name. Reads are capped at
// maxBytes.
func (m *Manager) Stage(sessionID string, slot Slot, filename string, r io.Reader, maxBytes int64) (string, error) {
	dir, err := m.sessionDir(sessionID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}

	// Drop any previously staged file for the slot, including one with a
	// different extension.
	if err := m.clearSlot(dir, slot); err != nil {
		return "", err
	}

	path := filepath.Join(dir, string(slot)+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}
	if written > maxBytes {
		os.Remove(path)
		return "", ErrUploadTooLarge
	}

	m.logger.Info("staged input file",
		slog.String("session_id", sessionID),
		slog.String("slot", string(slot)),
		slog.String("original_name", filepath.Base(filename)),
		slog.Int64("bytes", written))

	return path, nil
}

// StagedPath returns the staged file for a slot, or ErrNotStaged.
func (m *Manager) StagedPath(sessionID string, slot Slot) (string, error) {
	dir, err := m.sessionDir(sessionID)
	if err != nil {
		return "", err
	}
	for ext := range allowedExtensions {
		path := filepath.Join(dir, string(slot)+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotStaged, slot)
}

// List reports the staged file per slot for a session. Slots with no upload
// are absent from the map.
func (m *Manager) List(sessionID string) map[Slot]string {
	staged := make(map[Slot]string)
	for _, slot := range AllSlots {
		if path, err := m.StagedPath(sessionID, slot); err == nil {
			staged[slot] = path
		}
	}
	return staged
}

// Clear removes every staged file for a session.
func (m *Manager) Clear(sessionID string) error {
	dir, err := m.sessionDir(sessionID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear staged files: %w", err)
	}
	return nil
}

func (m *Manager) clearSlot(dir string, slot Slot) error {
	for ext := range allowedExtensions {
		path := filepath.Join(dir, string(slot)+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to replace staged file: %w", err)
		}
	}
	return nil
}

// sessionDir validates the session id before using it as a path component.
func (m *Manager) sessionDir(sessionID string) (string, error) {
	if !sessionIDPattern.MatchString(sessionID) {
		return "", fmt.Errorf("invalid session id")
	}
	return filepath.Join(m.uploadsDir, sessionID), nil
}
