package stackcheck

import (
	"context"

	"github.com/cirisai/stackcheck/internal/stackcheck/fakestack"
)

type FakeStackConfig struct {
	NodeAddr   string
	EngineAddr string
	Node       fakestack.NodeOptions
	Engine     fakestack.EngineOptions
}

// FakeStack serves a fake node and engine until ctx is cancelled,
// so the live checks can be exercised without the real stack.
func (a *App) FakeStack(ctx context.Context, config *FakeStackConfig) error {
	return fakestack.Serve(ctx, config.NodeAddr, config.EngineAddr, config.Node, config.Engine)
}
