package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"trialpulse/internal/dataprocessing"
	"trialpulse/internal/files"
	"trialpulse/internal/infrastructure"
	"trialpulse/pkg/contracts/domain"
)

// DashboardService owns the dashboard lifecycle for every session: staging
// the three uploaded exports, running generation, and publishing the
// resulting snapshot. Snapshots are published atomically per session: a
// failed generation leaves the previously published snapshot in place.
type DashboardService struct {
	manager   *files.Manager
	generator *dataprocessing.Generator
	logger    *slog.Logger
	maxUpload int64

	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(manager *files.Manager, generator *dataprocessing.Generator, maxUpload int64, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		manager:   manager,
		generator: generator,
		logger:    logger.With(slog.String("service", "dashboard")),
		maxUpload: maxUpload,
		snapshots: make(map[string]*domain.Snapshot),
	}
}

// StageInput stores one uploaded export in the session's slot.
func (s *DashboardService) StageInput(ctx context.Context, sessionID string, slot files.Slot, filename string, r io.Reader) error {
	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	if _, err := s.manager.Stage(sessionID, slot, filename, r, s.maxUpload); err != nil {
		logger.Warn("failed to stage input",
			slog.String("slot", string(slot)),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// StagedInputs reports which slots currently hold an upload.
func (s *DashboardService) StagedInputs(sessionID string) map[files.Slot]string {
	return s.manager.List(sessionID)
}

// ClearInputs removes every staged upload for the session.
func (s *DashboardService) ClearInputs(sessionID string) error {
	return s.manager.Clear(sessionID)
}

// Generate parses the three staged exports, runs the generator, and
// publishes the snapshot for the session. All three slots must be staged.
func (s *DashboardService) Generate(ctx context.Context, sessionID string, params domain.GenerateParams) (*domain.Snapshot, error) {
	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	inputs, err := s.loadInputs(sessionID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.generator.Generate(ctx, inputs, params)
	if err != nil {
		logger.Error("generation failed, previous snapshot retained",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("dashboard generation: %w", err)
	}

	s.mu.Lock()
	s.snapshots[sessionID] = snapshot
	s.mu.Unlock()

	logger.Info("snapshot published",
		slog.String("session_id", sessionID),
		slog.String("snapshot_id", snapshot.ID))
	return snapshot, nil
}

// Snapshot returns the session's published snapshot.
func (s *DashboardService) Snapshot(sessionID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	snapshot, ok := s.snapshots[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snapshot, nil
}

// Table validates a derived-table name against the published snapshot and
// returns the snapshot it belongs to.
func (s *DashboardService) Table(sessionID string, name domain.TableName) (*domain.Snapshot, error) {
	known := false
	for _, t := range domain.AllTables {
		if t == name {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return s.Snapshot(sessionID)
}

// loadInputs parses every staged slot into a table. A missing slot is
// reported with the slot name so the client knows what to upload.
func (s *DashboardService) loadInputs(sessionID string) (dataprocessing.Inputs, error) {
	var in dataprocessing.Inputs

	for _, slot := range files.AllSlots {
		path, err := s.manager.StagedPath(sessionID, slot)
		if err != nil {
			return in, fmt.Errorf("%w: %s", ErrInputNotStaged, slot)
		}
		table, err := dataprocessing.ReadTable(path)
		if err != nil {
			return in, fmt.Errorf("%w: %s: %v", ErrInputNotTabular, slot, err)
		}
		switch slot {
		case files.SlotEnrollment:
			in.Enrollment = table
		case files.SlotMonthly:
			in.Monthly = table
		case files.SlotSites:
			in.Site = table
		}
	}
	return in, nil
}
