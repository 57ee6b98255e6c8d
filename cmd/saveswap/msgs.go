package saveswap

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Swap save-game profiles in and out of a single-save game"
	MsgStatusShort  = "Show the active profile and the archive"
	MsgConfigShort  = "Print the effective configuration"
	MsgConfigLong   = "Print the configuration after defaults, config file, environment and flags are merged."
	MsgVersionShort = "Print version information"

	// Status messages
	MsgSwitched       = "Now playing as %s (was %s)"
	MsgSwitchedFirst  = "Now playing as %s"
	MsgCreated        = "Created profile %s"
	MsgAlreadyActive  = "%s is already active"
	MsgCancelled      = "Cancelled, nothing was changed"
	MsgLaunchDisabled = "Launch disabled, start the game yourself"
	MsgVersionFormat  = "saveswap version %s\n  commit: %s\n  built:  %s\n"
	MsgConfigPath     = "# config file: %s\n"
	MsgLogPath        = "# log file: %s\n"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrLayout     = "failed to resolve folders: %w"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file (default is $XDG_CONFIG_HOME/saveswap/config.toml)"
	MsgFlagMode      = "Swap mode: copy, link or auto"
	MsgFlagNoLaunch  = "Do not launch the game after swapping"
	MsgFlagDocuments = "Folder holding the game folder and the archive (default is your Documents folder)"
	MsgFlagPlain     = "Print plain markdown instead of styled output"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)
)
