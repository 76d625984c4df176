// Package gallery keeps the two artifact list surfaces (the public gallery
// grid and the embedded panel's list) consistent with the backend registry.
//
// Each Surface is an independent read-through cache: Refresh replaces its
// rows wholesale from a fresh registry listing, and Delete removes a row only
// after the backend confirms the delete. Surfaces never share state or notify
// each other; the Synchronizer merely fans refresh requests out to whichever
// surfaces are visible.
package gallery
