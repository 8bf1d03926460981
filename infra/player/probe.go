package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNoProber is returned when ffprobe is not installed.
var ErrNoProber = errors.New("ffprobe not found in PATH")

// runFunc runs a command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober discovers clip durations with ffprobe.
type Prober struct {
	bin string
	run runFunc
}

// NewProber looks up ffprobe. The returned prober reports ErrNoProber on
// every call when the binary is missing.
func NewProber() *Prober {
	bin, _ := exec.LookPath("ffprobe")
	return &Prober{bin: bin, run: runCommand}
}

// Available reports whether ffprobe was found.
func (p *Prober) Available() bool {
	return p.bin != ""
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Duration returns the container duration of the media at rawURL.
func (p *Prober) Duration(ctx context.Context, rawURL string) (time.Duration, error) {
	if p.bin == "" {
		return 0, ErrNoProber
	}
	out, err := p.run(ctx, p.bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		rawURL,
	)
	if err != nil {
		return 0, fmt.Errorf("probing %s: %w", rawURL, err)
	}
	return parseSeconds(string(out))
}

func parseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration %q: %w", s, err)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("non-positive duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
