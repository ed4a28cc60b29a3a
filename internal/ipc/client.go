package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to a running playback session.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the playback session snapshot.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Cadence.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlayPause toggles between playing and paused.
func (c *Client) PlayPause() (*PlayPauseResponse, error) {
	var resp PlayPauseResponse
	if err := c.client.Call("Cadence.PlayPause", PlayPauseRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Next advances to the next track.
func (c *Client) Next() (*NextResponse, error) {
	var resp NextResponse
	if err := c.client.Call("Cadence.Next", NextRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Previous steps back one track.
func (c *Client) Previous() (*PreviousResponse, error) {
	var resp PreviousResponse
	if err := c.client.Call("Cadence.Previous", PreviousRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shuffle toggles shuffle mode.
func (c *Client) Shuffle() (*ShuffleResponse, error) {
	var resp ShuffleResponse
	if err := c.client.Call("Cadence.Shuffle", ShuffleRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Repeat cycles the repeat mode.
func (c *Client) Repeat() (*RepeatResponse, error) {
	var resp RepeatResponse
	if err := c.client.Call("Cadence.Repeat", RepeatRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Enqueue adds an active-list index to the play queue.
func (c *Client) Enqueue(index int, playNext bool) (*EnqueueResponse, error) {
	var resp EnqueueResponse
	req := EnqueueRequest{Index: index, PlayNext: playNext}
	if err := c.client.Call("Cadence.Enqueue", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Volume sets the output level, 0..1.
func (c *Client) Volume(level float64) (*VolumeResponse, error) {
	var resp VolumeResponse
	if err := c.client.Call("Cadence.Volume", VolumeRequest{Level: level}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Seek jumps to an absolute position in the current track.
func (c *Client) Seek(positionMS int64) (*SeekResponse, error) {
	var resp SeekResponse
	if err := c.client.Call("Cadence.Seek", SeekRequest{PositionMS: positionMS}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop asks the playback session to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Cadence.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
