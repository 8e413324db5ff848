package packet

import "encoding/binary"

// Primitive codec: fixed-width big-endian integers and 2-byte
// length-prefixed strings/binary data, shared by every packet type and by
// the MQTT 5 property block.

const maxPrefixedLength = 0xFFFF // 65535, the largest value a u16 length prefix can carry

func putUint16(dst []byte, v uint16) { binary.BigEndian.PutUint16(dst, v) }
func putUint32(dst []byte, v uint32) { binary.BigEndian.PutUint32(dst, v) }

func getUint16(src []byte) uint16 { return binary.BigEndian.Uint16(src) }
func getUint32(src []byte) uint32 { return binary.BigEndian.Uint32(src) }

// putPrefixed writes a 2-byte big-endian length prefix followed by v into
// dst and returns the number of bytes written (2+len(v)). The caller trusts
// its own declared length; callers that need bounds enforcement validate
// len(v) <= maxPrefixedLength before sizing the packet.
func putPrefixed(dst []byte, v []byte) int {
	putUint16(dst, uint16(len(v)))
	copy(dst[2:], v)
	return 2 + len(v)
}

// getPrefixed reads a 2-byte length prefix at the start of src and returns
// the borrowed slice it frames plus the total bytes consumed (2+n). It
// verifies the declared length fits within src before borrowing.
func getPrefixed(src []byte) (value []byte, consumed int, err error) {
	if len(src) < 2 {
		return nil, 0, ErrMalformedPacket
	}
	n := int(getUint16(src))
	if len(src) < 2+n {
		return nil, 0, ErrMalformedPacket
	}
	return src[2 : 2+n], 2 + n, nil
}
