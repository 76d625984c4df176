// Package hostbridge speaks the host application's string-in/string-out
// scripting protocol.
//
// Every call is a source snippet evaluated by the host's embedded engine; the
// reply is a single string. Mutating operations answer "OK: <message>" or
// "ERROR: <message>", and anything else is a protocol violation surfaced
// verbatim. Arguments are embedded as double-quoted string literals with
// backslashes escaped so Windows paths survive the host's parser. There is
// exactly one request per invocation and nothing retries.
package hostbridge
