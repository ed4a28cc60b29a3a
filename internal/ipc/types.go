package ipc

// StatusRequest asks for the playback session snapshot.
type StatusRequest struct{}

// StatusResponse is a point-in-time view of the playback session.
type StatusResponse struct {
	Playing      bool    `json:"playing"`
	Index        int     `json:"index"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	Path         string  `json:"path"`
	PositionMS   int64   `json:"position_ms"`
	DurationMS   int64   `json:"duration_ms"`
	Volume       float64 `json:"volume"`
	Shuffle      bool    `json:"shuffle"`
	Repeat       string  `json:"repeat"`
	ListLen      int     `json:"list_len"`
	QueueLen     int     `json:"queue_len"`
	ActiveSource string  `json:"active_source"`
}

// PlayPauseRequest toggles between playing and paused.
type PlayPauseRequest struct{}

// PlayPauseResponse reports the resulting state.
type PlayPauseResponse struct {
	Playing bool `json:"playing"`
}

// NextRequest advances to the next track.
type NextRequest struct{}

// NextResponse reports what is now playing.
type NextResponse struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// PreviousRequest steps back one track.
type PreviousRequest struct{}

// PreviousResponse reports what is now playing.
type PreviousResponse struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// ShuffleRequest toggles shuffle.
type ShuffleRequest struct{}

// ShuffleResponse reports the resulting flag.
type ShuffleResponse struct {
	Shuffle bool `json:"shuffle"`
}

// RepeatRequest cycles the repeat mode.
type RepeatRequest struct{}

// RepeatResponse reports the resulting mode.
type RepeatResponse struct {
	Repeat string `json:"repeat"`
}

// EnqueueRequest adds an active-list index to the play queue.
type EnqueueRequest struct {
	Index    int  `json:"index"`
	PlayNext bool `json:"play_next"`
}

// EnqueueResponse reports the queue length after the insert.
type EnqueueResponse struct {
	QueueLen int `json:"queue_len"`
}

// VolumeRequest sets the output level, 0..1.
type VolumeRequest struct {
	Level float64 `json:"level"`
}

// VolumeResponse echoes the applied level.
type VolumeResponse struct {
	Level float64 `json:"level"`
}

// SeekRequest jumps to an absolute position in the current track.
type SeekRequest struct {
	PositionMS int64 `json:"position_ms"`
}

// SeekResponse echoes the applied position.
type SeekResponse struct {
	PositionMS int64 `json:"position_ms"`
}

// StopRequest asks the playback session to shut down.
type StopRequest struct{}

// StopResponse acknowledges the shutdown request.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}
