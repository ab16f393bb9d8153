package version

// mainpkg is the canonical import path the module was built under.
var mainpkg = "github.com/run0-ai/superfast-rsync"

// version is replaced at build time via -ldflags; the value here is used
// for a go-get based install.
var version = "v0.1.0+unknown"

// revision is filled with the VCS revision at link time.
var revision = ""
