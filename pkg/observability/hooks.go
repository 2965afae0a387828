// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about workspace mutations and durable store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so any backend
// (OpenTelemetry, Prometheus, DataDog, etc.) can plug in without the
// core packages importing it.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetWorkspaceHooks(&myWorkspaceHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Workspace().OnCardAdded(ctx, kind, nodeCount)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Workspace Hooks
// =============================================================================

// WorkspaceHooks receives events from workspace layout mutations.
type WorkspaceHooks interface {
	// Card lifecycle
	OnCardAdded(ctx context.Context, kind string, nodeCount int)
	OnCardRemoved(ctx context.Context, kind string, nodeCount int)

	// Z-order and expansion
	OnFront(ctx context.Context, kind string)
	OnExpand(ctx context.Context, kind string)
	OnCollapse(ctx context.Context, kind string)

	// Spawn placement
	OnSpawnSearch(ctx context.Context, kind string, attempts int, exhausted bool)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from durable layout store operations.
type StoreHooks interface {
	// OnSave records a layout snapshot write.
	OnSave(ctx context.Context, record string, size int, duration time.Duration, err error)

	// OnLoad records a layout snapshot read.
	OnLoad(ctx context.Context, record string, found bool, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopWorkspaceHooks is a no-op implementation of WorkspaceHooks.
type NoopWorkspaceHooks struct{}

func (NoopWorkspaceHooks) OnCardAdded(context.Context, string, int)         {}
func (NoopWorkspaceHooks) OnCardRemoved(context.Context, string, int)       {}
func (NoopWorkspaceHooks) OnFront(context.Context, string)                  {}
func (NoopWorkspaceHooks) OnExpand(context.Context, string)                 {}
func (NoopWorkspaceHooks) OnCollapse(context.Context, string)               {}
func (NoopWorkspaceHooks) OnSpawnSearch(context.Context, string, int, bool) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, int, time.Duration, error)  {}
func (NoopStoreHooks) OnLoad(context.Context, string, bool, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	workspaceHooks WorkspaceHooks = NoopWorkspaceHooks{}
	storeHooks     StoreHooks     = NoopStoreHooks{}
	hooksMu        sync.RWMutex
)

// SetWorkspaceHooks registers custom workspace hooks.
// This should be called once at application startup before any mutations.
func SetWorkspaceHooks(h WorkspaceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		workspaceHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Workspace returns the registered workspace hooks.
func Workspace() WorkspaceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return workspaceHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	workspaceHooks = NoopWorkspaceHooks{}
	storeHooks = NoopStoreHooks{}
}
