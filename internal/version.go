package internal

// Version is the vocabtts release, overridden at build time via -ldflags.
var Version = "0.3.1"
