package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It does not run the editor itself; callers hand the *exec.Cmd to tea.ExecProcess
// so Bubble Tea releases the terminal first.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

// scissors separates the header Cmd writes from the comment body. Only text
// below it is kept, so body lines may start with '#'.
const scissors = "# ------------------------ >8 ------------------------"

// Cmd writes draft into a temp file below a header describing the clip, and
// returns the editor command and the file path.
func (e *EnvEditor) Cmd(draft, clipTitle string) (*exec.Cmd, string, error) {
	editorCmd := strings.TrimSpace(os.Getenv("EDITOR"))
	if editorCmd == "" {
		editorCmd = "vi"
	}

	tmpFile, err := os.CreateTemp("", "clipzy-comment-*.txt")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	var b strings.Builder
	if clipTitle != "" {
		fmt.Fprintf(&b, "# Commenting on: %s\n", oneLine(clipTitle))
	}
	b.WriteString("# Write your comment below the line. Save an empty comment to cancel.\n")
	b.WriteString(scissors + "\n")
	b.WriteString(draft)

	if _, err := tmpFile.WriteString(b.String()); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	fields := strings.Fields(editorCmd)
	args := append(fields[1:], tmpPath)
	return exec.Command(fields[0], args...), tmpPath, nil
}

// ReadContent reads the temp file, drops the header above the scissors line,
// trims whitespace and removes the file. Without a scissors line the whole
// file is the comment.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if _, body, ok := strings.Cut(content, scissors+"\n"); ok {
		content = body
	} else if strings.HasSuffix(content, scissors) {
		content = ""
	}
	return strings.TrimSpace(content), nil
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 60 {
		s = string(r[:57]) + "..."
	}
	return s
}
