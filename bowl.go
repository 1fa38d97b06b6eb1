// Package bowl packages project templates into single-file bundles and
// recreates projects from them. The codec lives in pkg/bundle; the bowl
// command is in cmd/bowl.
package bowl

// Version is the release of the bowl tool. It is independent of
// bundle.CurrentVersion, the wire format version.
const Version = "0.1.0"
