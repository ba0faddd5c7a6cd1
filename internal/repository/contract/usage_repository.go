package contract

import (
	"context"

	"cv-adapter-be/internal/entity"

	"github.com/google/uuid"
)

// UsageRepository owns the usage_counters table. It is the only writer;
// services never touch the counters through any other path.
type UsageRepository interface {
	// GetOrCreate returns the counters row for the user, creating the
	// zero-initialized row if this is the user's first metered action.
	GetOrCreate(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error)

	// ConsumeOne performs the compare-and-increment: a single conditional
	// update that bumps both counters only while lifetime_generation_count
	// is below limit. Returns the row after the attempt and whether the
	// increment was applied. Two concurrent calls for the same user are
	// serialized by the store; they can never both succeed past the cap.
	ConsumeOne(ctx context.Context, userId uuid.UUID, limit int) (consumed bool, counters *entity.UsageCounters, err error)

	// IncrementUnlimited bumps both counters without a cap check (usage
	// stats for unlimited tiers); it never fails a quota check.
	IncrementUnlimited(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error)

	// Reset zeroes both counters and stamps last_reset_at. Idempotent:
	// replaying it leaves the same end state.
	Reset(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error)

	// Delete removes the row (account deletion cascade only).
	Delete(ctx context.Context, userId uuid.UUID) error

	// Aggregates for the admin dashboard.
	SumLifetime(ctx context.Context) (int64, error)
}
