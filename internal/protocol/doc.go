// Package protocol owns the VISCA wire contract constants and reply
// classification.
//
// Ownership boundary:
// - header bit layout and terminator
// - command/inquiry markers and category codes
// - reply kinds (ack, completion, error) and device error codes
package protocol
