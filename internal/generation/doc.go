// Package generation drives one credits-video generation request through its
// lifecycle.
//
// Submit rejects an empty header message before any network traffic, checks
// the remaining fields against the backend's parameter schema, and then posts
// the request under a single-flight guard. While a submission is in flight the
// previous artifact is withdrawn so nothing can act on a stale reference. A
// successful submission becomes the current artifact and triggers a gallery
// refresh. Failures are terminal for that submission; nothing retries.
//
// The package also refreshes the backend's patron list and parses custom-name
// files (.txt, .csv) into the request's override list.
package generation
