package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// ErrReleased is returned by Play on a released clip.
var ErrReleased = errors.New("clip released")

// ErrNoPlayer is returned when no audio player binary is available.
var ErrNoPlayer = errors.New("no audio player found")

// Clip is a loaded sound. Play restarts it from the beginning, Stop halts
// it, and Release frees it for good.
type Clip interface {
	Play(ctx context.Context) error
	Stop()
	Release()
}

// Player loads audio files into clips.
type Player interface {
	Load(path string) (Clip, error)
}

// candidates are tried in order when no player command is configured.
var candidates = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"afplay"},
	{"mpv", "--no-video", "--really-quiet"},
}

// ExecPlayer plays files through an external command line player.
type ExecPlayer struct {
	argv []string
}

// NewExecPlayer uses command when non-empty, otherwise the first player
// found on PATH.
func NewExecPlayer(command []string) (*ExecPlayer, error) {
	if len(command) > 0 {
		if _, err := exec.LookPath(command[0]); err != nil {
			return nil, fmt.Errorf("audio player %q: %w", command[0], err)
		}
		return &ExecPlayer{argv: command}, nil
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return &ExecPlayer{argv: c}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Load returns a clip for path. The file is not opened until Play.
func (p *ExecPlayer) Load(path string) (Clip, error) {
	args := append(append([]string(nil), p.argv[1:]...), path)
	return &execClip{name: p.argv[0], args: args}, nil
}

type execClip struct {
	name string
	args []string

	mu       sync.Mutex
	cmd      *exec.Cmd
	released bool
}

func (c *execClip) Play(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ErrReleased
	}
	c.stopLocked()

	cmd := exec.CommandContext(ctx, c.name, c.args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.name, err)
	}
	c.cmd = cmd
	go func() {
		_ = cmd.Wait()
		c.mu.Lock()
		if c.cmd == cmd {
			c.cmd = nil
		}
		c.mu.Unlock()
	}()
	return nil
}

func (c *execClip) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *execClip) stopLocked() {
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	c.cmd = nil
}

func (c *execClip) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.released = true
}
