package packet

import "github.com/golang-io/requests"

// GenerateClientID returns a randomly generated identifier suitable for the
// CONNECT Client Identifier field. The codec never calls this itself -
// ClientID is a caller-supplied value - it exists for callers (tests,
// ephemeral connections) that need to synthesize one rather than source it
// from persisted session state.
func GenerateClientID() []byte {
	return []byte(requests.GenId())
}
