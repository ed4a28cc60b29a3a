// Package ipc provides JSON-RPC control of a running playback session over a
// Unix domain socket. The server forwards requests to a Controller; the
// client backs the ctl command.
package ipc
