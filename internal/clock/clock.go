package clock

import (
	"context"
	"time"
)

// Clock abstracts time so aggregation snapshots and rollup periods can be
// pinned in tests.
type Clock interface {
	Now(ctx context.Context) time.Time
}
