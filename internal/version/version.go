package version

// Build metadata, overridden at link time with -ldflags "-X ...".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
