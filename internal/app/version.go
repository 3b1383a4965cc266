package app

// Version is the program version, overridden at build time via
// -ldflags "-X github.com/cernml/geoff/internal/app.Version=...".
var Version = "dev"
