package version

// Version is the version of json-equals. It is set at build time with
// -ldflags "-X github.com/pulumi/json-equals/version.Version=...".
var Version = "dev"
