// Package version provides version information for the price-relay binary.
package version

// Version is the current version of price-relay. Overridden at build time with
// -ldflags "-X tc.com/price-relay/pkg/version.Version=...".
var Version = "0.3.0"

// AgentString returns the User-Agent style identifier.
// Format: price-relay/v{version}
func AgentString() string {
	return "price-relay/v" + Version
}
