// Package hostsandbox is a headless stand-in for the host application's
// scripting engine. It evaluates panel snippets with the goja JavaScript
// runtime against an in-memory timeline project, exposing the same global
// functions the real host script defines, and persists the project between
// runs as a JSON snapshot.
package hostsandbox
