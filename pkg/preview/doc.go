// Package preview serves a scene over HTTP so frames can be inspected in a
// browser while the scene file is edited elsewhere.
//
// Routes:
//
//	GET /healthz                 liveness and build version
//	GET /items                   timeline items as JSON
//	GET /frame.svg?t=<secs>      one still frame
//	GET /items/{name}/graph.svg  block diagram of one item (?format=dot for source)
//	GET /blocks                  the block catalog as JSON
//
// Frames and diagrams are cached under keys derived from the scene hash, so
// a long-running server shares work between clients.
package preview
