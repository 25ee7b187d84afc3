package main

// Overridden at build time via -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = ""
)

func versionString() string {
	if commit != "" {
		return "pgwright " + version + " (" + commit + ")"
	}
	return "pgwright " + version
}
