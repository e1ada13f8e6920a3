// Package ports declares the interfaces the application layer depends on.
package ports

import (
	"context"
	"time"

	"github.com/aescanero/blockqueue/pkg/domain"
)

// SnapshotStore keeps the snapshot of the current attempt per session
type SnapshotStore interface {
	// Save replaces the snapshot of a session
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load returns a copy of the snapshot, domain.ErrSnapshotNotFound if none
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete drops the snapshot of a session
	Delete(ctx context.Context, sessionID string) error
}

// Scheduler runs f after d on the engine's control thread
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// MetricsCollector records engine metrics
type MetricsCollector interface {
	RecordPlacement(result string)
	RecordDispatch(tokens, empty int)
	RecordAction(kind string)
	ObserveActionDuration(duration time.Duration)
	RecordRollback(restored bool)
	RecordEvent(eventType string)
	RecordStall()
	SetQueueDepth(depth int)
	SetGridOccupancy(cells int)
	SetState(state string)
}
