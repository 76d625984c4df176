// Package services defines shared utilities consumed by the panel pipeline
// components and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp operation names, UI surfaces, and correlation
//     identifiers for logging and tracing.
//   - Failure markers plus the Wrap helper that classify errors into the
//     validation / transport / server / local-write / host taxonomy the panel
//     renders as status banners.
//
// Use these helpers when wiring new pipeline steps so error classification and
// observability stay uniform across both UI surfaces.
package services
