// Package registry reads and deletes the backend's list of generated
// artifacts and normalizes each record into the Artifact view model shared
// by both gallery surfaces. It holds no cache of its own; every List call
// goes to the backend.
package registry
