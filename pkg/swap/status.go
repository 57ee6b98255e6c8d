package swap

import (
	"github.com/arthur-debert/saveswap/pkg/config"
	"github.com/arthur-debert/saveswap/pkg/errors"
	"github.com/arthur-debert/saveswap/pkg/slot"
)

// Status is a read-only snapshot of the slot and the archive.
type Status struct {
	SlotPath    string
	ArchiveRoot string
	Mode        config.Mode
	State       slot.State
	Active      string
	Markers     []string
	Profiles    []string

	// Problem is set when the slot is in a state the engine refuses to
	// swap from, such as a link pointing outside the archive.
	Problem string
}

// Status inspects the slot and the archive without changing anything.
func (e *Engine) Status() (*Status, error) {
	state, err := e.Detect()
	if err != nil {
		return nil, err
	}
	names, err := e.store.Names()
	if err != nil {
		return nil, err
	}

	st := &Status{
		SlotPath:    e.layout.SlotPath(),
		ArchiveRoot: e.layout.ArchiveRoot(),
		Mode:        e.Mode(),
		State:       state,
		Profiles:    names,
	}

	if state.IsPhysical() {
		if st.Markers, err = slot.Markers(e.fs, e.layout.SlotPath(), e.ext); err != nil {
			return nil, err
		}
	}

	active, err := e.ActiveProfile(state)
	switch {
	case errors.IsErrorCode(err, errors.ErrConflict):
		st.Problem = err.Error()
	case err != nil:
		return nil, err
	default:
		st.Active = active
	}
	if e.NeedsAdoption(state) {
		st.Problem = "the slot holds save data that belongs to no profile yet"
	}
	return st, nil
}
