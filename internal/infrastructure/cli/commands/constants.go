package commands

// Error messages
const (
	ErrContainerUnavailable     = "application container unavailable"
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrDiagnosticsFailed        = "diagnostics found problems"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgConfigExists             = "Configuration already exists at %s (use --force to overwrite)\n"
	MsgConfigWritten            = "Configuration written to %s\n"
)

// Interactive menu
const (
	menuText = `
1) Sentiment Analysis
2) Webpage Summary
3) Session status
q) Quit
`
	menuPrompt   = "Choose an action: "
	reviewPrompt = "Paste customer reviews, then an empty line:"
	urlPrompt    = "Webpage URL: "
)
