package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/blockqueue/internal/application/board"
	"github.com/aescanero/blockqueue/pkg/adapters/events/memory"
	"github.com/aescanero/blockqueue/pkg/domain"
	"github.com/aescanero/blockqueue/pkg/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the turn orchestrator state
type State string

const (
	StateIdle           State = "idle"
	StateInTurn         State = "in_turn"
	StateAwaitingAction State = "awaiting_action"
)

// Config holds manager dependencies and settings
type Config struct {
	Bus       *memory.Bus
	Storage   ports.SnapshotStore
	Scheduler ports.Scheduler
	Metrics   ports.MetricsCollector
	Logger    *zap.Logger

	SessionID      string
	Columns        int
	Rows           int
	Layout         board.Layout
	SettleInterval time.Duration
	Inventory      []domain.Kind
}

// Manager sequences dispatch, consumption and rollback.
// All methods and bus handlers must run on the same control thread.
type Manager struct {
	bus       *memory.Bus
	storage   ports.SnapshotStore
	scheduler ports.Scheduler
	metrics   ports.MetricsCollector
	logger    *zap.Logger

	grid      *board.Grid
	inventory *board.Inventory
	row       *board.Row

	sessionID string
	layout    board.Layout
	settle    time.Duration

	state       State
	stateSince  time.Time
	actionStart time.Time

	// bumped by rollback and reset so stale settle timers do nothing
	epoch        uint64
	cancelSettle func()

	unsubscribe []func()
}

// View is a read-only copy of the engine state
type View struct {
	SessionID  string            `json:"session_id"`
	State      State             `json:"state"`
	StateSince time.Time         `json:"state_since"`
	Columns    int               `json:"columns"`
	Rows       int               `json:"rows"`
	Inventory  []*domain.Token   `json:"inventory"`
	Grid       [][]*domain.Token `json:"grid"`
	Row        []*domain.Token   `json:"row"`
	Pending    bool              `json:"pending"`
}

// NewManager creates a manager and subscribes it to the bus
func NewManager(cfg *Config, validator *Validator) (*Manager, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid manager config: %w", err)
	}

	grid, err := board.NewGrid(cfg.Columns, cfg.Rows)
	if err != nil {
		return nil, err
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	m := &Manager{
		bus:        cfg.Bus,
		storage:    cfg.Storage,
		scheduler:  cfg.Scheduler,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger.With(zap.String("session_id", sessionID)),
		grid:       grid,
		sessionID:  sessionID,
		layout:     cfg.Layout,
		settle:     cfg.SettleInterval,
		state:      StateIdle,
		stateSince: time.Now(),
	}
	m.inventory = board.NewInventory(m.logger)
	m.row = board.NewRow(cfg.Bus, m.logger)

	if err := m.inventory.Reset(cfg.Inventory); err != nil {
		m.row.Close()
		return nil, fmt.Errorf("failed to fill inventory: %w", err)
	}

	m.subscribe()
	m.metrics.SetState(string(m.state))

	return m, nil
}

func (m *Manager) subscribe() {
	start := m.bus.GameStart.Subscribe(func(memory.Void) { m.onGameStart() })
	failed := m.bus.GameFailed.Subscribe(func(memory.Void) { m.onGameFailed() })
	turnEnd := m.bus.TurnEnd.Subscribe(func(memory.Void) { m.onTurnEnd() })

	m.unsubscribe = []func(){
		func() { m.bus.GameStart.Unsubscribe(start) },
		func() { m.bus.GameFailed.Unsubscribe(failed) },
		func() { m.bus.TurnEnd.Unsubscribe(turnEnd) },
		m.row.Close,
	}
}

// SessionID returns the id snapshots are stored under
func (m *Manager) SessionID() string {
	return m.sessionID
}

// State returns the current state
func (m *Manager) State() State {
	return m.state
}

// StateAge returns how long the manager has been in its current state
func (m *Manager) StateAge() time.Duration {
	return time.Since(m.stateSince)
}

// Place moves an inventory token into the lowest free cell of column
func (m *Manager) Place(tokenID string, column int) (int, error) {
	token, err := m.inventory.Find(tokenID)
	if err != nil {
		m.metrics.RecordPlacement("token_not_found")
		return -1, err
	}

	row, err := m.grid.Place(column, token)
	if err != nil {
		m.metrics.RecordPlacement(placementResult(err))
		m.logger.Debug("placement rejected",
			zap.String("token_id", tokenID),
			zap.Int("column", column),
			zap.Error(err))
		return -1, err
	}

	if _, err := m.inventory.Take(tokenID); err != nil {
		return -1, err
	}

	m.metrics.RecordPlacement("ok")
	m.metrics.SetGridOccupancy(m.grid.Count())
	m.logger.Debug("token placed",
		zap.String("token_id", tokenID),
		zap.String("kind", token.Kind.String()),
		zap.Int("column", column),
		zap.Int("row", row))

	return row, nil
}

// PlaceAt resolves a local x coordinate to a column and places the token there
func (m *Manager) PlaceAt(x float64, tokenID string) (int, int, error) {
	column, ok := board.ResolveColumn(x, m.layout.Width(m.grid.Columns()), m.grid.Columns())
	if !ok {
		m.metrics.RecordPlacement(placementResult(domain.ErrInvalidColumn))
		return -1, -1, fmt.Errorf("x=%.1f outside grid: %w", x, domain.ErrInvalidColumn)
	}

	row, err := m.Place(tokenID, column)
	if err != nil {
		return -1, -1, err
	}
	return column, row, nil
}

// PlaceKind places the first inventory token of kind into column
func (m *Manager) PlaceKind(kind domain.Kind, column int) (string, int, error) {
	for _, t := range m.inventory.Snapshot() {
		if t.Kind != kind {
			continue
		}
		row, err := m.Place(t.ID, column)
		if err != nil {
			return "", -1, err
		}
		return t.ID, row, nil
	}

	m.metrics.RecordPlacement("token_not_found")
	return "", -1, fmt.Errorf("no %s token in inventory: %w", kind, domain.ErrTokenNotFound)
}

// Remove takes a token off the grid and returns it to the inventory
func (m *Manager) Remove(column, row int) (*domain.Token, error) {
	token, err := m.grid.Remove(column, row)
	if err != nil {
		return nil, err
	}

	if token != nil {
		m.inventory.Put(token)
		m.logger.Debug("token returned to inventory",
			zap.String("token_id", token.ID),
			zap.Int("column", column),
			zap.Int("row", row))
	}

	m.metrics.SetGridOccupancy(m.grid.Count())
	return token, nil
}

// ResetStage refills the inventory from templates and empties grid and row
func (m *Manager) ResetStage(templates []domain.Kind) error {
	if err := m.inventory.Reset(templates); err != nil {
		return fmt.Errorf("failed to reset inventory: %w", err)
	}

	m.epoch++
	m.stopSettle()
	m.grid.Clear()
	m.row.Load(nil)

	if err := m.storage.Delete(context.Background(), m.sessionID); err != nil {
		m.logger.Error("failed to delete snapshot", zap.Error(err))
	}

	m.setState(StateIdle)
	m.syncGauges()
	m.logger.Info("stage reset", zap.Int("inventory", len(templates)))
	return nil
}

// View returns a copy of the current state
func (m *Manager) View() *View {
	return &View{
		SessionID:  m.sessionID,
		State:      m.state,
		StateSince: m.stateSince,
		Columns:    m.grid.Columns(),
		Rows:       m.grid.Rows(),
		Inventory:  m.inventory.Snapshot(),
		Grid:       m.grid.Snapshot(),
		Row:        m.row.Slots(),
		Pending:    m.row.Pending(),
	}
}

// onGameStart captures the attempt snapshot
func (m *Manager) onGameStart() {
	if m.state == StateAwaitingAction {
		m.logger.Warn("game start ignored while an action is outstanding")
		return
	}

	snap := &domain.Snapshot{
		Inventory: m.inventory.Snapshot(),
		Grid:      m.grid.Snapshot(),
	}

	if err := m.storage.Save(context.Background(), m.sessionID, snap); err != nil {
		m.logger.Error("failed to save snapshot", zap.Error(err))
		return
	}

	m.setState(StateInTurn)
	m.logger.Info("attempt started",
		zap.Int("inventory", len(snap.Inventory)),
		zap.Int("grid_tokens", m.grid.Count()))
}

// onTurnEnd advances the attempt by one action
func (m *Manager) onTurnEnd() {
	switch m.state {
	case StateIdle:
		m.logger.Debug("turn end ignored, no attempt in progress")
		return
	case StateAwaitingAction:
		m.logger.Debug("turn end ignored, action outstanding")
		return
	}

	if !m.row.IsEmpty() {
		m.consume()
		return
	}

	if !m.grid.IsEmpty() {
		m.dispatch()
		return
	}

	m.logger.Debug("grid and row empty, waiting for stage clear")
}

// dispatch moves the bottom row into the execution row and consumes it
// once the settle interval has passed
func (m *Manager) dispatch() {
	tokens := m.grid.DispatchBottomRow()
	m.row.Load(tokens)

	present := 0
	for _, t := range tokens {
		if t != nil {
			present++
		}
	}
	m.metrics.RecordDispatch(present, len(tokens)-present)
	m.syncGauges()

	m.logger.Debug("bottom row dispatched",
		zap.Int("tokens", present),
		zap.Int("slots", len(tokens)),
		zap.Bool("grid_contiguous", m.grid.Contiguous()))

	m.setState(StateAwaitingAction)

	epoch := m.epoch
	m.cancelSettle = m.scheduler.AfterFunc(m.settle, func() {
		if epoch != m.epoch {
			return
		}
		m.cancelSettle = nil
		m.consume()
	})
}

// consume triggers the front slot of the execution row
func (m *Manager) consume() {
	m.setState(StateAwaitingAction)
	m.actionStart = time.Now()

	kind, _ := m.row.Front()
	m.metrics.RecordAction(kind.String())

	epoch := m.epoch
	if err := m.row.ConsumeFront(func() { m.onActionComplete(epoch) }); err != nil {
		m.logger.Error("failed to consume row front", zap.Error(err))
		m.setState(StateInTurn)
	}
}

// onActionComplete runs when the actor has signalled ActionEnd
func (m *Manager) onActionComplete(epoch uint64) {
	if epoch != m.epoch {
		return
	}

	m.metrics.ObserveActionDuration(time.Since(m.actionStart))
	m.syncGauges()
	m.setState(StateInTurn)

	m.bus.TurnEnd.Raise(memory.Void{})
}

// onGameFailed restores the snapshot taken at GameStart
func (m *Manager) onGameFailed() {
	m.epoch++
	m.stopSettle()

	snap, err := m.storage.Load(context.Background(), m.sessionID)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		m.logger.Info("game failed before any attempt started, nothing to restore")
		m.metrics.RecordRollback(false)
		return
	}
	if err != nil {
		m.logger.Error("failed to load snapshot", zap.Error(err))
		m.metrics.RecordRollback(false)
		return
	}

	m.inventory.Rollback(snap.Inventory)
	if err := m.grid.Restore(snap.Grid); err != nil {
		m.logger.Error("failed to restore grid", zap.Error(err))
		m.grid.Clear()
	}
	m.row.Load(nil)

	m.setState(StateInTurn)
	m.metrics.RecordRollback(true)
	m.syncGauges()

	m.logger.Info("attempt rolled back",
		zap.Int("inventory", m.inventory.Len()),
		zap.Int("grid_tokens", m.grid.Count()))
}

func (m *Manager) stopSettle() {
	if m.cancelSettle != nil {
		m.cancelSettle()
		m.cancelSettle = nil
	}
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	m.logger.Debug("state transition",
		zap.String("from", string(m.state)),
		zap.String("to", string(s)))
	m.state = s
	m.stateSince = time.Now()
	m.metrics.SetState(string(s))
}

func (m *Manager) syncGauges() {
	m.metrics.SetQueueDepth(m.row.Len())
	m.metrics.SetGridOccupancy(m.grid.Count())
}

// Shutdown unsubscribes the manager and cancels pending timers
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("shutting down turn orchestrator")

	m.epoch++
	m.stopSettle()
	for _, u := range m.unsubscribe {
		u()
	}
	m.unsubscribe = nil

	if err := m.storage.Delete(ctx, m.sessionID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	m.logger.Info("turn orchestrator shut down complete")
	return nil
}

func placementResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidColumn):
		return "invalid_column"
	case errors.Is(err, domain.ErrColumnFull):
		return "column_full"
	case errors.Is(err, domain.ErrTokenNotFound):
		return "token_not_found"
	default:
		return "error"
	}
}

// Outstanding reports whether an action or settle delay is in flight
func (m *Manager) Outstanding() bool {
	return m.state == StateAwaitingAction
}
