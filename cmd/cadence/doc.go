// Command cadence manages a local audio library: scanning tags, reconciling
// external manifests, maintaining playlists, and driving playback sessions
// controllable over a Unix socket.
package main
