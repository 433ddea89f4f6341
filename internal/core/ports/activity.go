package ports

import (
	"context"
	"time"
)

// ActivityEntry is one audit record of a state-changing operation.
type ActivityEntry struct {
	Actor    string    // username, or "anonymous"
	Verb     string    // e.g. "signup", "review.create"
	Resource string    // e.g. "title/66f...", "user/alice"
	At       time.Time
}

// ActivityRecorder persists audit entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivitySink accepts audit entries for asynchronous recording. Enqueue
// must never block request handling; entries may be dropped under pressure.
type ActivitySink interface {
	Enqueue(entry ActivityEntry)
}
