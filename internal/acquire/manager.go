// Package acquire runs remote track acquisition through an external fetch
// command. Each job runs on its own worker and reports progress through
// one-way ordered events; completion delivers either freshly scanned tracks
// or a failure cause.
package acquire

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"cadence/internal/catalog"
	"cadence/internal/config"
	"cadence/internal/logging"
)

// ErrCancelled marks a job stopped by request rather than by failure.
var ErrCancelled = errors.New("acquisition cancelled")

// EventKind distinguishes the notification types a job emits.
type EventKind int

const (
	// EventOutput carries one line of raw command output.
	EventOutput EventKind = iota
	// EventStatus carries a short human-readable phase description.
	EventStatus
	// EventProgress carries a done/total pair parsed from command output.
	EventProgress
	// EventDone is terminal: either Tracks is populated or Err is set.
	EventDone
)

// Event is a single ordered notification from a job.
type Event struct {
	JobID  string
	Kind   EventKind
	Line   string
	Status string
	Done   int
	Total  int
	Tracks []catalog.Track
	Err    error
}

// progressPattern matches "N/M" counters in fetch command output.
var progressPattern = regexp.MustCompile(`\b(\d+)/(\d+)\b`)

type job struct {
	id      string
	locator string
	destDir string
	cancel  context.CancelFunc
}

// Manager tracks in-flight acquisitions. Events from all jobs arrive on one
// channel; per-job ordering is guaranteed because each job emits serially.
type Manager struct {
	cfg     *config.Config
	scanner *catalog.Scanner
	logger  *slog.Logger
	events  chan Event

	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

// NewManager constructs an acquisition manager. The scanner turns downloaded
// files into catalog entries on success.
func NewManager(cfg *config.Config, scanner *catalog.Scanner, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:     cfg,
		scanner: scanner,
		logger:  logger.With(logging.String("component", "acquire")),
		events:  make(chan Event, 64),
		jobs:    make(map[string]*job),
	}
}

// Events returns the shared notification channel.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Start launches a fetch for locator on its own worker and returns the job
// ID. Multiple jobs may run concurrently.
func (m *Manager) Start(ctx context.Context, locator string) (string, error) {
	if m.cfg.Acquire.Command == "" {
		return "", errors.New("no acquire command configured")
	}
	id := uuid.NewString()
	destDir := filepath.Join(m.cfg.Acquire.DownloadDir, id)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	var jobCtx context.Context
	var cancel context.CancelFunc
	if m.cfg.Acquire.TimeoutSeconds > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Acquire.TimeoutSeconds)*time.Second)
	} else {
		jobCtx, cancel = context.WithCancel(ctx)
	}
	j := &job{id: id, locator: locator, destDir: destDir, cancel: cancel}

	m.mu.Lock()
	m.jobs[id] = j
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		defer func() {
			m.mu.Lock()
			delete(m.jobs, id)
			m.mu.Unlock()
		}()
		m.run(jobCtx, j)
	}()

	m.logger.Info("acquisition started",
		logging.String("job", id),
		logging.String("locator", locator))
	return id, nil
}

// Cancel requests a cooperative stop. The job notices at its next output
// line, not instantaneously.
func (m *Manager) Cancel(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return false
	}
	j.cancel()
	return true
}

// Active returns the IDs of jobs still running.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.jobs))
	for id := range m.jobs {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown cancels every job and waits for workers with a bounded grace
// period. After the deadline shutdown proceeds regardless.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	for _, j := range m.jobs {
		j.cancel()
	}
	m.mu.Unlock()

	grace := time.Duration(m.cfg.Acquire.ShutdownSeconds) * time.Second
	if grace <= 0 {
		grace = 5 * time.Second
	}
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		m.logger.Warn("shutdown grace period elapsed with jobs still running")
	}
}

func (m *Manager) run(ctx context.Context, j *job) {
	m.emit(Event{JobID: j.id, Kind: EventStatus, Status: "fetching " + j.locator})

	args := append([]string{}, m.cfg.Acquire.ExtraArgs...)
	args = append(args, j.locator)
	cmd := exec.Command(m.cfg.Acquire.Command, args...)
	cmd.Dir = j.destDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		m.fail(j, fmt.Errorf("pipe output: %w", err))
		return
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		m.fail(j, fmt.Errorf("start %s: %w", m.cfg.Acquire.Command, err))
		return
	}

	cancelled := false
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		m.emit(Event{JobID: j.id, Kind: EventOutput, Line: line})
		if done, total, ok := parseProgress(line); ok {
			m.emit(Event{JobID: j.id, Kind: EventProgress, Done: done, Total: total})
		}
		if ctx.Err() != nil {
			cancelled = true
			_ = cmd.Process.Kill()
			break
		}
	}

	waitErr := cmd.Wait()
	if cancelled || ctx.Err() != nil {
		m.fail(j, ErrCancelled)
		return
	}
	if waitErr != nil {
		m.fail(j, fmt.Errorf("%s: %w", m.cfg.Acquire.Command, waitErr))
		return
	}

	m.emit(Event{JobID: j.id, Kind: EventStatus, Status: "scanning downloaded files"})
	result, err := m.scanner.ScanDir(context.Background(), j.destDir)
	if err != nil {
		m.fail(j, fmt.Errorf("scan download: %w", err))
		return
	}
	if len(result.Tracks) == 0 {
		m.fail(j, errors.New("fetch produced no playable files"))
		return
	}

	m.logger.Info("acquisition complete",
		logging.String("job", j.id),
		logging.Int("tracks", len(result.Tracks)),
		logging.Int("skipped", result.Skipped))
	m.emit(Event{JobID: j.id, Kind: EventDone, Tracks: result.Tracks})
}

func (m *Manager) fail(j *job, cause error) {
	m.logger.Warn("acquisition failed",
		logging.String("job", j.id),
		logging.Error(cause))
	m.emit(Event{JobID: j.id, Kind: EventDone, Err: cause})
}

func (m *Manager) emit(ev Event) {
	m.events <- ev
}

func parseProgress(line string) (done, total int, ok bool) {
	match := progressPattern.FindStringSubmatch(line)
	if match == nil {
		return 0, 0, false
	}
	done, err1 := strconv.Atoi(match[1])
	total, err2 := strconv.Atoi(match[2])
	if err1 != nil || err2 != nil || total == 0 || done > total {
		return 0, 0, false
	}
	return done, total, true
}
