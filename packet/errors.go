package packet

import "errors"

// Error taxonomy. Every codec entry point returns one of these (wrapped with
// extra context via fmt.Errorf("%w: ...") where useful) instead of retrying
// or panicking internally; the caller decides what to do about a bad peer.
var (
	// ErrBadParameter: caller-supplied arguments violate an API precondition.
	ErrBadParameter = errors.New("packet: bad parameter")

	// ErrNoMemory: the supplied FixedBuffer cannot hold the packet.
	ErrNoMemory = errors.New("packet: no memory")

	// ErrBadResponse: incoming bytes violate MQTT 3.1.1 structure.
	ErrBadResponse = errors.New("packet: bad response")

	// ErrMalformedPacket (v5): structural violation - truncated, overrun,
	// non-canonical varint.
	ErrMalformedPacket = errors.New("packet: malformed packet")

	// ErrProtocolError (v5): semantic violation - repeated property,
	// out-of-range value, disallowed property for this packet type.
	ErrProtocolError = errors.New("packet: protocol error")

	// ErrServerRefused: a structurally valid CONNACK/SUBACK reports refusal.
	ErrServerRefused = errors.New("packet: server refused")

	// ErrNoDataAvailable: the transport callback had zero bytes ready.
	ErrNoDataAvailable = errors.New("packet: no data available")

	// ErrRecvFailed: the transport callback returned an unexpected
	// short/negative read.
	ErrRecvFailed = errors.New("packet: recv failed")

	// ErrNeedMoreBytes: the input is a valid, incomplete prefix; the caller
	// should read more and retry.
	ErrNeedMoreBytes = errors.New("packet: need more bytes")
)

// ReasonCode pairs a wire-level reason/return code with its name, shared by
// CONNACK (both versions), SUBACK/UNSUBACK (v5), PUBACK/PUBREC/PUBREL/PUBCOMP
// (v5) and DISCONNECT/AUTH (v5).
type ReasonCode struct {
	Code   uint8
	Reason string
}

// MQTT 3.1.1 CONNACK return codes (section 3.2.2.3).
const (
	ConnackAccepted                   = 0x00
	ConnackRefusedProtocolVersion     = 0x01
	ConnackRefusedClientIdentifier    = 0x02
	ConnackRefusedServerUnavailable   = 0x03
	ConnackRefusedBadUsernamePassword = 0x04
	ConnackRefusedNotAuthorized       = 0x05
)

// MQTT 5.0 reason codes used across CONNACK, PUBACK/PUBREC, SUBACK, UNSUBACK,
// DISCONNECT and AUTH. Not every code is legal in every packet; callers check
// against the ranges documented per packet type in the deserializers.
var ReasonCodes = map[uint8]ReasonCode{
	0x00: {0x00, "success"},
	0x01: {0x01, "granted qos 1"},
	0x02: {0x02, "granted qos 2"},
	0x04: {0x04, "disconnect with will message"},
	0x10: {0x10, "no matching subscribers"},
	0x11: {0x11, "no subscription existed"},
	0x18: {0x18, "continue authentication"},
	0x19: {0x19, "re-authenticate"},
	0x80: {0x80, "unspecified error"},
	0x81: {0x81, "malformed packet"},
	0x82: {0x82, "protocol error"},
	0x83: {0x83, "implementation specific error"},
	0x84: {0x84, "unsupported protocol version"},
	0x85: {0x85, "client identifier not valid"},
	0x86: {0x86, "bad username or password"},
	0x87: {0x87, "not authorized"},
	0x88: {0x88, "server unavailable"},
	0x89: {0x89, "server busy"},
	0x8A: {0x8A, "banned"},
	0x8B: {0x8B, "server shutting down"},
	0x8C: {0x8C, "bad authentication method"},
	0x8D: {0x8D, "keep alive timeout"},
	0x8E: {0x8E, "session taken over"},
	0x8F: {0x8F, "topic filter invalid"},
	0x90: {0x90, "topic name invalid"},
	0x91: {0x91, "packet identifier in use"},
	0x92: {0x92, "packet identifier not found"},
	0x93: {0x93, "receive maximum exceeded"},
	0x94: {0x94, "topic alias invalid"},
	0x95: {0x95, "packet too large"},
	0x96: {0x96, "message rate too high"},
	0x97: {0x97, "quota exceeded"},
	0x98: {0x98, "administrative action"},
	0x99: {0x99, "payload format invalid"},
	0x9A: {0x9A, "retain not supported"},
	0x9B: {0x9B, "qos not supported"},
	0x9C: {0x9C, "use another server"},
	0x9D: {0x9D, "server moved"},
	0x9E: {0x9E, "shared subscriptions not supported"},
	0x9F: {0x9F, "connection rate exceeded"},
	0xA0: {0xA0, "maximum connect time"},
	0xA1: {0xA1, "subscription identifiers not supported"},
	0xA2: {0xA2, "wildcard subscriptions not supported"},
}
