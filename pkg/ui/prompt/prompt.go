package prompt

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// AckLabel is the only choice offered by an alert.
const AckLabel = "OK"

// Terminal prompts on the controlling terminal.
type Terminal struct {
	in          *os.File
	out         io.Writer
	styles      Styles
	interactive bool
}

// New creates a Terminal reading stdin and drawing on stderr.
func New() *Terminal {
	return NewWithTheme(DefaultTheme())
}

// NewWithTheme creates a Terminal with a custom theme.
func NewWithTheme(theme *Theme) *Terminal {
	return &Terminal{
		in:          os.Stdin,
		out:         os.Stderr,
		styles:      theme.Styles(PlainOutput(os.Stderr)),
		interactive: IsInteractive(os.Stdin),
	}
}

// IsInteractive reports whether f is a terminal a user can type into.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainOutput reports whether output to f should carry no color: NO_COLOR
// is set, f is not a terminal, or the terminal has no color support.
func PlainOutput(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return true
	}
	return termenv.ColorProfile() == termenv.Ascii
}

// CleanInput strips double quotes and surrounding whitespace, so a pasted
// "Alice" becomes Alice.
func CleanInput(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

// PromptText asks for one line of text.
func (t *Terminal) PromptText(ctx context.Context, title string) (string, error) {
	if err := t.requireInteractive(); err != nil {
		return "", err
	}
	var value string
	field := huh.NewInput().
		Title(title).
		Value(&value)
	if err := t.run(ctx, field); err != nil {
		return "", err
	}
	return CleanInput(value), nil
}

// PromptSelect asks the user to pick one option.
func (t *Terminal) PromptSelect(ctx context.Context, title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New(errors.ErrInternal, "nothing to choose from")
	}
	if err := t.requireInteractive(); err != nil {
		return "", err
	}

	var value string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&value)
	if err := t.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

// Alert shows a message and waits for acknowledgement. Without a
// terminal the message is only printed.
func (t *Terminal) Alert(ctx context.Context, title, message string) error {
	if _, err := fmt.Fprintln(t.out, t.styles.RenderAlert(title, message)); err != nil {
		return errors.Wrap(err, errors.ErrIO, "cannot write alert")
	}
	if !t.interactive {
		return nil
	}

	var ack string
	field := huh.NewSelect[string]().
		Options(huh.NewOption(AckLabel, AckLabel)).
		Value(&ack)
	return t.run(ctx, field)
}

func (t *Terminal) requireInteractive() error {
	if !t.interactive {
		return errors.New(errors.ErrUnsupported, "saveswap needs an interactive terminal to ask questions")
	}
	return nil
}

func (t *Terminal) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(t.styles.Form).
		WithInput(t.in).
		WithOutput(t.out)
	return translate(form.RunWithContext(ctx))
}

// translate maps form errors onto error codes. A user abort and a
// cancelled context both count as cancellation.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, huh.ErrUserAborted),
		stderrors.Is(err, context.Canceled),
		stderrors.Is(err, context.DeadlineExceeded):
		logger := logging.GetLogger("prompt")
		logger.Debug().Err(err).Msg("Prompt cancelled")
		return errors.Wrap(err, errors.ErrCancelled, "cancelled")
	}
	return errors.Wrap(err, errors.ErrInternal, "prompt failed")
}
