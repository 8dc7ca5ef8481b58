package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// stdinIsTerminal reports whether prompts can be shown; a test seam.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptLine prints prompt and reads one trimmed line from the command input.
func promptLine(cmd *cobra.Command, reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt+": ")
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	if !stdinIsTerminal() {
		return "", errors.New("no terminal to read " + strings.ToLower(prompt) + " from; pass it with a flag")
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt+": ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// flagOrPrompt returns the named string flag, prompting when it is empty.
func flagOrPrompt(cmd *cobra.Command, reader *bufio.Reader, flag, prompt string, secret bool) (string, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v, nil
	}
	if secret {
		return promptPassword(cmd, prompt)
	}
	return promptLine(cmd, reader, prompt)
}
