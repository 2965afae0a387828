// Package pkg provides the core libraries for the castdeck workspace engine.
//
// # Overview
//
// Castdeck is the backend of a card-based streaming companion: the
// browser renders a pannable canvas of cards (settings panels, chat
// tools, live channel previews) and this module owns the layout rules
// behind it. The pkg directory is organized by concern:
//
//   - [workspace] - The layout engine: card catalog, collision-free
//     spawn placement, preview z-order banding, expand-to-fullscreen
//     state machine, and versioned persistence.
//   - [geometry] - Rectangle and point math shared by placement,
//     expansion, and rendering.
//   - [store] - Key-value persistence backends (memory, file, Redis,
//     MongoDB, null).
//   - [render] - Static SVG snapshots of a layout.
//   - [config], [errors], [observability], [buildinfo] - Ambient
//     concerns shared by the CLI and HTTP surfaces.
//
// # Architecture
//
// The typical data flow:
//
//	browser canvas ⇄ internal/api ⇄ workspace.Store ⇄ workspace.Persister ⇄ store.Store
//
// The workspace store is the single authority on layout state; the
// canvas mirrors its viewport into the store so expansion math can run
// server-side, and every mutation is persisted as a complete snapshot.
package pkg
