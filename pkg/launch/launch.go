// Package launch starts the game once the slot holds the chosen profile.
package launch

import (
	"io"
	"net/url"

	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/logging"
	"github.com/pkg/browser"
)

// Opener hands a URI to the platform's handler for its scheme.
type Opener func(uri string) error

// URILauncher launches a game through a protocol URI such as
// steam://rungameid/<id>. It does not wait for the game.
type URILauncher struct {
	open Opener
}

// New returns a launcher using the system URL handler.
func New() *URILauncher {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &URILauncher{open: browser.OpenURL}
}

// NewWithOpener returns a launcher using open instead of the system handler.
func NewWithOpener(open Opener) *URILauncher {
	return &URILauncher{open: open}
}

// Launch opens uri.
func (l *URILauncher) Launch(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "invalid launch URI %q", uri)
	}
	if u.Scheme == "" {
		return errors.Newf(errors.ErrInvalidInput, "launch URI %q has no scheme", uri)
	}

	logger := logging.GetLogger("launch")
	logger.Debug().Str("uri", uri).Msg("Opening launch URI")
	if err := l.open(uri); err != nil {
		return errors.Wrapf(err, errors.ErrUnsupported, "cannot open %s", uri).WithDetail("uri", uri)
	}
	return nil
}
