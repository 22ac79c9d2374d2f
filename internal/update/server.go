package update

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// SupportedServerMajor is the API major version this client speaks.
const SupportedServerMajor = "v3"

// ServerCompat describes whether the API server version is supported.
type ServerCompat struct {
	ServerVersion string
	Supported     bool
	// Reason explains an unsupported or unknown version.
	Reason string
}

// CheckServerCompat compares the version reported by GET /v1/status with
// SupportedServerMajor. A version that does not parse is reported as
// supported with a reason.
func CheckServerCompat(serverVersion string) ServerCompat {
	out := ServerCompat{ServerVersion: serverVersion, Supported: true}
	v := canonical(serverVersion)
	switch major := semver.Major(v); {
	case !semver.IsValid(v):
		out.Reason = fmt.Sprintf("server version %q is not a semantic version", serverVersion)
	case major != SupportedServerMajor:
		out.Supported = false
		out.Reason = fmt.Sprintf("server API %s is not supported (expected %s.x)", major, SupportedServerMajor)
	}
	return out
}
