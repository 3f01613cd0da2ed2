// Package version reports the library version and builds the User-Agent
// header.
//
// Version is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/cloudkit/version.Version=1.0.0"
package version
