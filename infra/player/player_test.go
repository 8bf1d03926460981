package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestVirtual_AdvancesOnlyWhilePlaying(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	v := NewVirtual(clk)
	v.SetDuration(1, 10*time.Second)

	v.Play(1)
	clk.Advance(3 * time.Second)
	v.Pause(1)
	clk.Advance(time.Minute)

	st := v.Status(1)
	require.Equal(t, 3*time.Second, st.Position)
	require.False(t, st.Playing)
	require.InDelta(t, 0.3, st.Progress(), 1e-9)

	v.Play(1)
	v.Play(1)
	clk.Advance(2 * time.Second)
	require.Equal(t, 5*time.Second, v.Status(1).Position)
}

func TestVirtual_LoopsAndReportsFinishedOnce(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	v := NewVirtual(clk)
	v.SetDuration(1, 4*time.Second)
	v.Play(1)

	clk.Advance(5 * time.Second)
	st := v.Status(1)
	require.True(t, st.Finished)
	require.Equal(t, time.Second, st.Position)

	require.False(t, v.Status(1).Finished, "finished is reported once per loop")

	clk.Advance(4 * time.Second)
	require.True(t, v.Status(1).Finished)
}

func TestVirtual_UnknownDuration(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	v := NewVirtual(clk)
	v.Play(2)
	clk.Advance(7 * time.Second)

	st := v.Status(2)
	require.Equal(t, 7*time.Second, st.Position)
	require.Zero(t, st.Duration)
	require.False(t, st.Finished)
	require.Zero(t, st.Progress())

	require.Zero(t, v.Status(99))
	v.Forget(2)
	require.Zero(t, v.Status(2))
}

func TestProber_Duration(t *testing.T) {
	var gotArgs []string
	p := &Prober{bin: "ffprobe", run: func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte("12.500000\n"), nil
	}}

	d, err := p.Duration(context.Background(), "https://cdn.example/1.mp4")
	require.NoError(t, err)
	require.Equal(t, 12500*time.Millisecond, d)
	require.Equal(t, "https://cdn.example/1.mp4", gotArgs[len(gotArgs)-1])
}

func TestProber_Errors(t *testing.T) {
	missing := &Prober{}
	require.False(t, missing.Available())
	_, err := missing.Duration(context.Background(), "x")
	require.ErrorIs(t, err, ErrNoProber)

	boom := errors.New("boom")
	p := &Prober{bin: "ffprobe", run: func(context.Context, string, ...string) ([]byte, error) { return nil, boom }}
	_, err = p.Duration(context.Background(), "x")
	require.ErrorIs(t, err, boom)

	for _, out := range []string{"N/A", "0", ""} {
		p.run = func(context.Context, string, ...string) ([]byte, error) { return []byte(out), nil }
		_, err = p.Duration(context.Background(), "x")
		require.Error(t, err, "output %q", out)
	}
}

func TestOpenCommand(t *testing.T) {
	noMPV := func(string) (string, error) { return "", errors.New("missing") }
	withMPV := func(string) (string, error) { return "/usr/bin/mpv", nil }

	cmd := openCommand("https://c/1.mp4", "vlc --play-and-exit", withMPV)
	require.Equal(t, []string{"vlc", "--play-and-exit", "https://c/1.mp4"}, cmd.Args)

	cmd = openCommand("https://c/1.mp4", "", withMPV)
	require.Equal(t, "mpv", cmd.Args[0])

	cmd = openCommand("https://c/1.mp4", "", noMPV)
	require.Equal(t, "https://c/1.mp4", cmd.Args[len(cmd.Args)-1])
}

func TestOpen_RejectsUnsafeURLs(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "not a url"} {
		require.Error(t, Open(u), u)
	}
}
