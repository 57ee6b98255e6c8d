package swap

import (
	"context"
	"fmt"

	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/arthur-debert/saveswap/pkg/slot"
)

// Prompter asks the user for input. Implementations return an error
// coded errors.ErrCancelled when the user backs out.
type Prompter interface {
	PromptText(ctx context.Context, title string) (string, error)
	PromptSelect(ctx context.Context, title string, options []string) (string, error)
}

// Notifier shows a message the user acknowledges.
type Notifier interface {
	Alert(ctx context.Context, title, message string) error
}

// Launcher starts the game.
type Launcher interface {
	Launch(uri string) error
}

// Session is one interactive run.
type Session struct {
	Engine   *Engine
	Prompter Prompter
	Notifier Notifier

	// Launcher is skipped when nil or when LaunchURI is empty.
	Launcher  Launcher
	LaunchURI string
}

// Prompt titles shown during a run.
const (
	TitleAdopt      = "Existing save data found. Who does it belong to?"
	TitleSelect     = "Who is playing?"
	TitleNewProfile = "Name of the new profile"
	TitleInvalid    = "Invalid name"
	TitleNotFound   = "No save data"
	TitleLaunch     = "Could not launch the game"
	TitleFailed     = "Could not swap profiles"
)

// Run detects the slot, adopts an unregistered installation, asks which
// profile to play, activates it and launches the game. Every failure
// except a cancellation is also shown through the Notifier.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	result, err := s.run(ctx)
	if err != nil && !errors.IsErrorCode(err, errors.ErrCancelled) {
		title := TitleFailed
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			title = TitleNotFound
		}
		s.alert(ctx, title, errors.Message(err))
	}
	return result, err
}

func (s *Session) run(ctx context.Context) (*Result, error) {
	logger := logging.GetLogger("session")
	store := s.Engine.Store()

	state, err := s.Engine.Detect()
	if err != nil {
		return nil, err
	}
	names, err := store.Names()
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("slot", state.Mode.String()).Int("profiles", len(names)).Msg("Starting session")

	if state.Mode == slot.Absent && len(names) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "no game data at %s and no profiles in %s",
			s.Engine.Layout().SlotPath(), s.Engine.Layout().ArchiveRoot())
	}
	if err := store.EnsureRoot(); err != nil {
		return nil, err
	}

	if s.Engine.NeedsAdoption(state) {
		if err := s.adopt(ctx, state); err != nil {
			return nil, err
		}
		if state, err = s.Engine.Detect(); err != nil {
			return nil, err
		}
		if names, err = store.Names(); err != nil {
			return nil, err
		}
	}

	active, err := s.Engine.ActiveProfile(state)
	if err != nil {
		return nil, err
	}

	title := TitleSelect
	if active != "" {
		title = fmt.Sprintf("%s (now: %s)", TitleSelect, active)
	}
	options := append(append([]string{}, names...), store.Sentinel())
	choice, err := s.Prompter.PromptSelect(ctx, title, options)
	if err != nil {
		return nil, err
	}

	target := Target{Name: choice}
	if choice == store.Sentinel() {
		name, err := s.promptName(ctx, TitleNewProfile, store.Validate)
		if err != nil {
			return nil, err
		}
		target = Target{Name: name, New: true}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCancelled, "cancelled before swapping")
	}
	result, err := s.Engine.Activate(state, target)
	if err != nil {
		return nil, err
	}

	s.launch(ctx)
	return result, nil
}

func (s *Session) adopt(ctx context.Context, state slot.State) error {
	_, err := s.promptName(ctx, TitleAdopt, func(name string) error {
		_, err := s.Engine.Adopt(state, name)
		return err
	})
	return err
}

// promptName asks until accept takes the name. Recoverable errors are
// shown and the question is asked again; anything else ends the loop.
func (s *Session) promptName(ctx context.Context, title string, accept func(string) error) (string, error) {
	for {
		name, err := s.Prompter.PromptText(ctx, title)
		if err != nil {
			return "", err
		}
		err = accept(name)
		if err == nil {
			return name, nil
		}
		if !errors.IsRecoverable(err) {
			return "", err
		}

		logger := logging.GetLogger("session")
		logger.Debug().Err(err).Str("name", name).Msg("Rejected profile name")
		if s.Notifier == nil {
			continue
		}
		if err := s.Notifier.Alert(ctx, TitleInvalid, errors.Message(err)); err != nil {
			return "", err
		}
	}
}

func (s *Session) launch(ctx context.Context) {
	if s.Launcher == nil || s.LaunchURI == "" {
		return
	}
	logger := logging.GetLogger("session")
	logger.Info().Str("uri", s.LaunchURI).Msg("Launching game")
	if err := s.Launcher.Launch(s.LaunchURI); err != nil {
		logger.Warn().Err(err).Msg("Launch failed")
		s.alert(ctx, TitleLaunch, err.Error())
	}
}

// alert shows a message when a notifier is set. Alert failures only get
// logged since the caller already has something to report.
func (s *Session) alert(ctx context.Context, title, message string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Alert(ctx, title, message); err != nil {
		logger := logging.GetLogger("session")
		logger.Debug().Err(err).Msg("Alert failed")
	}
}
