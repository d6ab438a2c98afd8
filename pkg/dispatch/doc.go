// Package dispatch reads framed commands from a byte stream and routes
// them to handlers.
//
// A Dispatcher is serviced cooperatively. Each call to Service handles at
// most one frame and never waits for bytes: a frame whose bytes have not
// all arrived stays in the stream until a later call finds it complete.
package dispatch
