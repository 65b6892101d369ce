package inbox

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 10_000

// Inbox remembers recently processed event ids. Redeliveries older than the window are
// processed again; handlers must tolerate that.
type Inbox struct {
	seen *lru.Cache[string, string]
}

func New(size int) (*Inbox, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Inbox{seen: cache}, nil
}

// Record returns true the first time eventID is seen. Events without an id are always new.
func (i *Inbox) Record(_ context.Context, eventID, eventType string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	found, _ := i.seen.ContainsOrAdd(eventID, eventType)
	return !found, nil
}

// Forget drops eventID so the next attempt at a failed event is not treated as a duplicate.
func (i *Inbox) Forget(eventID string) {
	i.seen.Remove(eventID)
}

func (i *Inbox) Len() int {
	return i.seen.Len()
}
