package player

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Open starts an external player for rawURL without waiting for it.
// $CLIPZY_PLAYER wins, then mpv, then the OS default handler.
func Open(rawURL string) error {
	if !isSafeExternalURL(rawURL) {
		return fmt.Errorf("refusing to open %q", rawURL)
	}
	cmd := openCommand(rawURL, os.Getenv("CLIPZY_PLAYER"), exec.LookPath)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Args[0], err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openCommand(rawURL, override string, lookPath func(string) (string, error)) *exec.Cmd {
	if fields := strings.Fields(override); len(fields) > 0 {
		return exec.Command(fields[0], append(fields[1:], rawURL)...)
	}
	if _, err := lookPath("mpv"); err == nil {
		return exec.Command("mpv", "--really-quiet", rawURL)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}

func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
