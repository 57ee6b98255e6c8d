// Package report renders the status of the slot and the archive as
// markdown, styled with glamour when the output is a terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/slot"
	"github.com/arthur-debert/saveswap/pkg/swap"
	"github.com/charmbracelet/glamour"
)

// Markdown describes a status snapshot.
func Markdown(st *swap.Status) string {
	var b strings.Builder

	b.WriteString("# saveswap status\n\n")
	fmt.Fprintf(&b, "- **Mode:** %s\n", st.Mode)
	fmt.Fprintf(&b, "- **Slot:** `%s` (%s)\n", st.SlotPath, describeState(st.State))
	fmt.Fprintf(&b, "- **Archive:** `%s`\n", st.ArchiveRoot)
	if st.Active != "" {
		fmt.Fprintf(&b, "- **Active profile:** %s\n", st.Active)
	} else {
		b.WriteString("- **Active profile:** none\n")
	}

	b.WriteString("\n## Profiles\n\n")
	if len(st.Profiles) == 0 {
		b.WriteString("No profiles registered yet.\n")
	}
	for _, name := range st.Profiles {
		if name == st.Active {
			fmt.Fprintf(&b, "- **%s** (active)\n", name)
			continue
		}
		fmt.Fprintf(&b, "- %s\n", name)
	}

	if len(st.Markers) > 1 {
		fmt.Fprintf(&b, "\n> The slot carries %d markers: %s. The first one wins.\n",
			len(st.Markers), strings.Join(st.Markers, ", "))
	}
	if st.Problem != "" {
		fmt.Fprintf(&b, "\n> **Problem:** %s\n", st.Problem)
	}
	return b.String()
}

func describeState(state slot.State) string {
	switch state.Mode {
	case slot.Absent:
		return "missing"
	case slot.Link:
		return "link to `" + state.Target + "`"
	case slot.CopyNoMarker:
		return "unregistered copy"
	case slot.CopyWithMarker:
		return "copy of " + state.Profile
	}
	return state.Mode.String()
}

// Render writes the status to w. plain skips glamour and writes the
// markdown source.
func Render(w io.Writer, st *swap.Status, plain bool) error {
	content := Markdown(st)
	if !plain {
		content = style(content)
	}
	if _, err := io.WriteString(w, content); err != nil {
		return errors.Wrap(err, errors.ErrIO, "cannot write status")
	}
	return nil
}

func style(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fallback to plain text on error
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
