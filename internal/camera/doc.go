// Package camera drives command and inquiry exchanges with VISCA devices over
// a transport link.
//
// A command is acknowledged and later completed; an inquiry completes with
// its status payload. Both may end in an error reply instead. The package
// builds the fixed-byte OSD menu commands and the interface-level broadcast
// messages on top of that discipline.
package camera
