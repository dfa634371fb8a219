package app

import (
	"context"
	"log"
	"sync"

	"github.com/bitvfx/pix-go/internal/state"
	"github.com/bitvfx/pix-go/model"
	"github.com/bitvfx/pix-go/session"
)

// inboxClient funnels every PIX call through one mutex. The session issues
// one request at a time and keeps its login and active-project state
// unsynchronized, so the poller goroutine and the UI command goroutines
// must never drive it concurrently.
type inboxClient struct {
	mu      sync.Mutex
	sess    *session.Session
	store   *state.Store
	project *model.Project
}

func newInboxClient(sess *session.Session, store *state.Store) *inboxClient {
	return &inboxClient{sess: sess, store: store}
}

// LoadProject activates the named project and performs the initial inbox
// fetch. Until it succeeds the poller's refresh calls are no-ops.
func (c *inboxClient) LoadProject(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	project, err := c.sess.LoadProject(ctx, name)
	if err != nil {
		return err
	}
	c.project = project
	c.refreshLocked(ctx)
	return nil
}

// Refresh fetches the inbox once and publishes the result to the store.
func (c *inboxClient) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked(ctx)
}

func (c *inboxClient) refreshLocked(ctx context.Context) {
	if c.project == nil {
		return
	}
	entries, err := c.project.Inbox(ctx, 0)
	if err != nil {
		c.store.Update("", nil, err)
		log.Printf("inbox poll failed: %v", err)
		return
	}
	c.store.Update(c.project.Label(), toEntries(entries), nil)
}

// MarkRead flags the item as viewed on the service, then in the store.
func (c *inboxClient) MarkRead(ctx context.Context, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.project == nil {
		return nil
	}
	if _, err := c.project.MarkAsRead(ctx, itemID); err != nil {
		return err
	}
	c.store.MarkViewed(itemID)
	return nil
}

// Delete removes the item from the inbox on the service, then from the
// store.
func (c *inboxClient) Delete(ctx context.Context, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.project == nil {
		return nil
	}
	if _, err := c.project.DeleteInboxItem(ctx, itemID); err != nil {
		return err
	}
	c.store.Remove(itemID)
	return nil
}

// toEntries flattens feed behaviors into the view structs the store holds.
func toEntries(feeds []*model.ShareFeedEntry) []state.Entry {
	out := make([]state.Entry, 0, len(feeds))
	for _, feed := range feeds {
		entry := state.Entry{
			ID:          feed.ID(),
			Message:     feed.Message(),
			Viewed:      feed.Viewed(),
			Attachments: feed.AttachmentCount(),
		}
		if sender, err := feed.Sender(); err == nil {
			entry.Sender = sender.Name()
		}
		out = append(out, entry)
	}
	return out
}
