package common

// PackageName is used as the metrics namespace and the default log service tag.
const PackageName = "installer_server"

// Version is overridden at build time via -ldflags "-X .../common.Version=..."
var Version = "dev"
