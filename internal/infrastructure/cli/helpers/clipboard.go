package helpers

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Clipboard copies generated prompts using the platform clipboard tool.
type Clipboard struct {
	lookPath func(string) (string, error)
}

// NewClipboard builds the clipboard helper.
func NewClipboard() *Clipboard {
	return &Clipboard{lookPath: exec.LookPath}
}

func (c *Clipboard) Enabled() bool {
	_, err := c.command(context.Background())
	return err == nil
}

// Copy copies text to the system clipboard.
func (c *Clipboard) Copy(ctx context.Context, text string) error {
	cmd, err := c.command(ctx)
	if err != nil {
		return err
	}
	cmd.Stdin = bytes.NewBufferString(text)
	return cmd.Run()
}

func (c *Clipboard) command(ctx context.Context) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "pbcopy"), nil
	case "windows":
		return exec.CommandContext(ctx, "clip"), nil
	case "linux":
		if _, err := c.lookPath("wl-copy"); err == nil {
			return exec.CommandContext(ctx, "wl-copy"), nil
		}
		if _, err := c.lookPath("xclip"); err == nil {
			return exec.CommandContext(ctx, "xclip", "-selection", "clipboard"), nil
		}
		return nil, fmt.Errorf("clipboard utilities not found (install wl-copy or xclip)")
	default:
		return nil, fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}
