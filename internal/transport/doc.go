// Package transport owns one byte-stream link to a VISCA bus: a serial
// device node or a TCP socket.
//
// Ownership boundary:
// - endpoint open/close lifecycle
// - framed packet writes and terminator-delimited frame reads
// - non-destructive pending-byte queries
//
// A Handle carries no internal locking. One execution context issues one
// command and reads its reply at a time; callers that share a Handle across
// goroutines serialize access themselves.
package transport
