package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/CrestNiraj12/clipzy/infra/auth"
	"github.com/CrestNiraj12/clipzy/infra/clipzy"
	"github.com/CrestNiraj12/clipzy/infra/config"
	"github.com/CrestNiraj12/clipzy/infra/editor"
	"github.com/CrestNiraj12/clipzy/infra/player"
	"github.com/CrestNiraj12/clipzy/playback"
	"github.com/CrestNiraj12/clipzy/tui"
	"github.com/CrestNiraj12/clipzy/tui/feed"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliLogout
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	case "logout":
		return cliLogout, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: clipzy [logout] [--version|-version|-v] [--help|-h]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		if rev := strings.TrimSpace(settings["vcs.revision"]); rev != "" {
			c = rev[:min(len(rev), 12)]
		}
	}
	if d == "unknown" {
		if t := strings.TrimSpace(settings["vcs.time"]); t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// openLog creates the log file's directory on first run and opens the file
// through Bubble Tea.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return tea.LogToFile(path, "clipzy")
}

// credentialsSource prefers configured credentials and falls back to a
// terminal prompt with the password read without echo.
func credentialsSource(cfg config.Config, in io.Reader, out io.Writer) auth.CredentialsFunc {
	return func() (auth.Credentials, error) {
		if cfg.Username != "" && cfg.Password != "" {
			return auth.Credentials{Username: cfg.Username, Password: cfg.Password}, nil
		}
		fd := os.Stdin.Fd()
		if !term.IsTerminal(fd) {
			return auth.Credentials{}, errors.New("not a terminal: set CLIPZY_USERNAME and CLIPZY_PASSWORD")
		}

		reader := bufio.NewReader(in)
		username := cfg.Username
		if username == "" {
			fmt.Fprint(out, "Clipzy username: ")
			line, err := reader.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return auth.Credentials{}, err
			}
			username = strings.TrimSpace(line)
		}

		fmt.Fprint(out, "Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return auth.Credentials{}, err
		}
		return auth.Credentials{Username: username, Password: string(pw)}, nil
	}
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("clipzy %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	// 1. Load config from .env, environment and the optional YAML file.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if mode == cliLogout {
		s, err := auth.OpenSession(cfg.AuthDir)
		if err != nil {
			fmt.Println("Not signed in.")
			return
		}
		if err := s.Logout(); err != nil {
			fmt.Fprintf(os.Stderr, "logout: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Signed out.")
		return
	}

	// 2. Logs go to a file; the terminal belongs to the UI.
	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 3. Sign in before the alt screen takes over.
	session, err := auth.EnsureLogin(context.Background(), cfg.BackendURL, cfg.AuthDir, credentialsSource(cfg, os.Stdin, os.Stdout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}
	logger.Info("signed in", "user", session.User(), "backend", cfg.BackendURL)

	// 4. Build services (concrete types satisfy app.* interfaces).
	client := clipzy.NewClient(cfg.BackendURL, session, logger)
	clock := playback.SystemClock{}

	var prober feed.DurationProber
	if p := player.NewProber(); p.Available() {
		prober = p
	} else {
		logger.Warn("clip durations unavailable, watch percentages disabled", "err", player.ErrNoProber)
	}

	rootModel := tui.NewApp(tui.Deps{
		Feed: feed.Services{
			Feed:       clipzy.NewFeedService(client),
			Engagement: clipzy.NewEngagementService(client),
			Prober:     prober,
			Open:       player.Open,
			Logger:     logger,
		},
		Comments: clipzy.NewCommentService(client),
		Share:    clipzy.NewShareService(client),
		Session:  session,
		Editor:   editor.NewEnvEditor(),
		Settings: cfg.Feed,
		Clock:    clock,
		Player:   player.NewVirtual(clock),
		Logger:   logger,
	})

	// 5. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "clipzy: %v\n", err)
		os.Exit(1)
	}
}
