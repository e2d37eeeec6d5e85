// Package checkpoint persists RunState snapshots keyed by thread ID so a
// suspended run can be resumed later, possibly from a different process.
package checkpoint

import (
	"context"
	"errors"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

var ErrNotFound = errors.New("checkpoint not found")

// Store is the durable key-value surface the scheduler checkpoints through.
// Implementations must isolate distinct thread IDs; no lock may span more
// than one thread's record.
type Store interface {
	Save(ctx context.Context, threadID string, state *models.RunState) error
	Load(ctx context.Context, threadID string) (*models.RunState, error)
	Delete(ctx context.Context, threadID string) error
	// List returns the thread IDs with a stored snapshot, in no particular order.
	List(ctx context.Context) ([]string, error)
}
