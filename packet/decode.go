package packet

// DecodeFixedHeader reads the 2-to-5 byte fixed header from the start of src
// and returns the decoded header and the number of bytes consumed. Only the
// packet types a broker sends to a client are accepted (CONNECT, SUBSCRIBE,
// UNSUBSCRIBE, PINGREQ and RESERVED are rejected with ErrBadResponse).
// Callers read fh.Kind and call the matching DecodeConnack/DecodePublish/... function
// directly; this package has no Packet interface and does no dynamic
// dispatch, since the caller always knows which packet type it expects or
// can switch on fh.Kind once.
func DecodeFixedHeader(src []byte) (fh FixedHeader, consumed int, err error) {
	return decodeFixedHeader(src)
}
