package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"cadence/internal/logging"
)

// Controller is the playback session surface the server exposes. The session
// serializes calls internally; the server never touches sequencer state
// directly.
type Controller interface {
	Status() StatusResponse
	PlayPause() bool
	Next() (int, string)
	Previous() (int, string)
	ToggleShuffle() bool
	CycleRepeat() string
	Enqueue(index int, playNext bool) (int, error)
	SetVolume(level float64) (float64, error)
	Seek(positionMS int64) error
	Stop()
}

// Server exposes playback control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, ctrl Controller, logger *slog.Logger) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("ipc server requires controller")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	svc := &service{ctrl: ctrl, logger: logger.With(logging.String("component", "ipc"))}
	if err := rpcServer.RegisterName("Cadence", svc); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	ctrl   Controller
	logger *slog.Logger
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	*resp = s.ctrl.Status()
	return nil
}

func (s *service) PlayPause(_ PlayPauseRequest, resp *PlayPauseResponse) error {
	resp.Playing = s.ctrl.PlayPause()
	return nil
}

func (s *service) Next(_ NextRequest, resp *NextResponse) error {
	resp.Index, resp.Title = s.ctrl.Next()
	return nil
}

func (s *service) Previous(_ PreviousRequest, resp *PreviousResponse) error {
	resp.Index, resp.Title = s.ctrl.Previous()
	return nil
}

func (s *service) Shuffle(_ ShuffleRequest, resp *ShuffleResponse) error {
	resp.Shuffle = s.ctrl.ToggleShuffle()
	return nil
}

func (s *service) Repeat(_ RepeatRequest, resp *RepeatResponse) error {
	resp.Repeat = s.ctrl.CycleRepeat()
	return nil
}

func (s *service) Enqueue(req EnqueueRequest, resp *EnqueueResponse) error {
	queueLen, err := s.ctrl.Enqueue(req.Index, req.PlayNext)
	if err != nil {
		return err
	}
	resp.QueueLen = queueLen
	return nil
}

func (s *service) Volume(req VolumeRequest, resp *VolumeResponse) error {
	level, err := s.ctrl.SetVolume(req.Level)
	if err != nil {
		return err
	}
	resp.Level = level
	return nil
}

func (s *service) Seek(req SeekRequest, resp *SeekResponse) error {
	if err := s.ctrl.Seek(req.PositionMS); err != nil {
		return err
	}
	resp.PositionMS = req.PositionMS
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.logger.Info("stop requested via IPC")
	s.ctrl.Stop()
	resp.Stopped = true
	return nil
}
