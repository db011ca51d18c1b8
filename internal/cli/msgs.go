package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Apply a declarative setup profile to this Mac"
	MsgSetupShort       = "Install everything the profile declares"
	MsgPreviewShort     = "Show what setup would do, without changing anything"
	MsgPreviewLong      = "Preview lists the items of a profile by category. With --diff each item is checked against this machine."
	MsgStatusShort      = "Show the progress saved by the last run"
	MsgResetShort       = "Delete the saved progress"
	MsgResetLong        = "Reset deletes the state file so the next setup starts from scratch. Nothing installed is removed."
	MsgProfilesShort    = "List the profiles in the configuration"
	MsgProfileShowShort = "Show what a profile contains"
	MsgProfileDiffShort = "Compare the packages of two profiles"
	MsgConfigShort      = "Print the effective settings"
	MsgConfigLong       = "Config prints the settings after merging built-in defaults, settings.toml and MACSETUP_* environment variables."
	MsgVersionShort     = "Print version information"

	// Status messages
	MsgApplyingFormat       = "Applying configuration from %s (profile: %s)\n"
	MsgDryRunNotice         = "DRY RUN MODE - No changes were made"
	MsgNoSavedState         = "No saved state."
	MsgStateClearedFormat   = "Cleared saved state at %s\n"
	MsgNoProfiles           = "No profiles found."
	MsgProfileFormat        = "Profile: %s\n"
	MsgProfileDescFormat    = "  Description: %s\n"
	MsgProfileExtendsFormat = "  Extends: %s\n"
	MsgNoDangling           = "All dotfile links are intact."
	MsgDanglingHeader       = "Broken dotfile links:"
	MsgVersionFormat        = "macsetup version %s\n"
	MsgCommitFormat         = "Commit: %s\n"
	MsgBuiltFormat          = "Built:  %s\n"

	// Error messages
	MsgErrInitPaths     = "failed to initialize paths: %w"
	MsgErrLoadSettings  = "failed to load settings: %w"
	MsgErrClearState    = "failed to clear saved state: %w"
	MsgErrWriteMetrics  = "Failed to write metrics textfile"
	MsgErrPrefix        = "Error: "
	MsgAvailableFormat  = "Available profiles: %s\n"
	MsgStaleStateFormat = "Saved state belongs to profile %q; starting fresh"

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfigDir       = "Configuration directory (default $XDG_CONFIG_HOME/macsetup)"
	MsgFlagJSON            = "Print machine-readable JSON"
	MsgFlagQuiet           = "Print nothing but errors"
	MsgFlagProfile         = "Profile to use"
	MsgFlagResume          = "Continue the last interrupted or failed run"
	MsgFlagForce           = "Apply every item even if it looks already installed"
	MsgFlagSkipDotfiles    = "Do not link dotfiles"
	MsgFlagSkipPreferences = "Do not write preferences"
	MsgFlagNoBootstrap     = "Do not install missing tools (Homebrew, mas)"
	MsgFlagDryRun          = "Only list what would be installed"
	MsgFlagDiff            = "Compare the profile with what is installed"
	MsgFlagCheck           = "Also check dotfile links for the profile"
	MsgFlagDefaults        = "Print the built-in defaults instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/setup-long.txt
	msgSetupLongRaw string
	MsgSetupLong    = strings.TrimSpace(msgSetupLongRaw)

	//go:embed msgs/setup-example.txt
	msgSetupExampleRaw string
	MsgSetupExample    = strings.TrimRight(msgSetupExampleRaw, "\n")

	//go:embed msgs/preview-example.txt
	msgPreviewExampleRaw string
	MsgPreviewExample    = strings.TrimRight(msgPreviewExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)
)
