package mirror

import (
	"context"
	"sync"

	"groundops-service/pkg/logger"
)

// Remote is a bridge seen from the group
type Remote interface {
	Collection() string
	SubscribeRemote(ctx context.Context) (func(), error)
}

// Group keeps the remote watches of several bridges and re-opens them when
// the identity, and with it the remote path, changes.
type Group struct {
	mu      sync.Mutex
	remotes []Remote
	stops   []func()
	logger  logger.Logger
}

// NewGroup creates a group over remotes
func NewGroup(logger logger.Logger, remotes ...Remote) *Group {
	return &Group{remotes: remotes, logger: logger}
}

// Start opens a watch per bridge. A failing bridge is logged and skipped.
func (g *Group) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.startLocked(ctx)
}

// Restart closes every watch and opens them again on the current paths
func (g *Group) Restart(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
	g.startLocked(ctx)
}

// Stop closes every watch
func (g *Group) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
}

func (g *Group) startLocked(ctx context.Context) {
	for _, r := range g.remotes {
		stop, err := r.SubscribeRemote(ctx)
		if err != nil {
			g.logger.Error("Failed to watch remote collection", "collection", r.Collection(), "error", err)
			continue
		}
		g.stops = append(g.stops, stop)
	}
}

func (g *Group) stopLocked() {
	for _, stop := range g.stops {
		stop()
	}
	g.stops = nil
}
