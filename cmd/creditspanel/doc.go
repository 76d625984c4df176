// Command creditspanel drives the credits video pipeline from a terminal:
// generating a video on the rendering backend, importing it into the host
// editing project, and managing the artifact gallery.
//
// Usage:
//
//	creditspanel [flags] <command> [args]
//
// Commands:
//
//	generate      Submit a generation request (optionally --import the result)
//	import        Download an artifact and add it to the host timeline
//	gallery       List or delete generated videos
//	project       Inspect or edit the host project
//	patrons       Refresh or count the backend's patron list
//	ffmpeg        Check or install FFmpeg on the backend
//	status        Show readiness checks, server and project state
//	panel run     Run the embedded panel's polling loops in the foreground
//	logs          Show or follow the log file
//	config        Create or validate the configuration file
package main
