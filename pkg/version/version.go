package version

// Tag is overridden at build time via -ldflags.
var Tag = "v0.3.1"
