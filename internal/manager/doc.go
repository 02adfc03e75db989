// Package manager sequences a map configuration onto a live engine instance.
// It is structured into small files by concern:
//
//   - initializer.go: Initializer, the per-configuration orchestrator. It
//     creates the engine, attaches controls and events, requests the style
//     and adds sources then layers once the style has loaded.
//   - controls.go, listeners.go, sources.go, layers.go, images.go: the five
//     sub-managers. Each adds idempotently. Sources, layers and images are
//     removed in reverse order, controls and handlers in configured order.
//   - types.go: MapConfig and its entries, lifecycle and image states.
//   - config.go: Initializer options and defaults.
//   - errors.go: sentinel errors and ImageLoadError.
//   - events.go, eventpub_memory.go, eventpub_log.go: lifecycle event
//     publishing.
//   - metrics.go: prometheus lifecycle counters.
//   - status_report.go: read-only views for status reporting.
//   - validate.go: configuration reference checks.
//
// Teardown order is fixed: events, layers, sources, controls, engine.
// Images are registered independently of style loading and may settle after
// the run is destroyed; such late completions are discarded.
package manager
