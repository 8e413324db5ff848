package packet

import "context"

// Receiver is the transport callback the pull-style fixed-header reader is
// driven by: it fills buf and reports how many bytes it placed there. A
// transport with no data ready returns (0, nil); a transport error is
// reported through the error return, not through a negative count.
type Receiver func(ctx context.Context, buf []byte) (int, error)

func (r Receiver) readByte(ctx context.Context) (byte, error) {
	var b [1]byte
	n, err := r(ctx, b[:])
	if err != nil {
		return 0, ErrRecvFailed
	}
	if n == 0 {
		return 0, ErrNoDataAvailable
	}
	if n != 1 {
		return 0, ErrRecvFailed
	}
	return b[0], nil
}

// ReadIncomingPacketHeader reads the fixed header one byte at a time off
// recv: the type/flags byte, then the Remaining Length varint. It never
// reads the variable header or payload that follow - the caller reads
// fh.RemainingLength more bytes itself (via recv or otherwise) and passes
// them to the matching Decode<Type> function.
func ReadIncomingPacketHeader(ctx context.Context, recv Receiver) (FixedHeader, error) {
	first, err := recv.readByte(ctx)
	if err != nil {
		return FixedHeader{}, err
	}
	kind := first >> 4
	flags := first & 0x0F
	if !validIncomingKinds[kind] {
		return FixedHeader{}, ErrBadResponse
	}
	if want, ok := reservedFlags[kind]; ok && flags != want {
		return FixedHeader{}, ErrMalformedPacket
	}
	if zeroFlagsKinds[kind] && flags != 0 {
		return FixedHeader{}, ErrMalformedPacket
	}

	var multiplier uint32 = 1
	var result uint32
	for {
		b, err := recv.readByte(ctx)
		if err != nil {
			return FixedHeader{}, err
		}
		result += uint32(b&0x7F) * multiplier
		if b&0x80 == 0 {
			break
		}
		multiplier *= 128
		if multiplier > varIntMax3+1 {
			return FixedHeader{}, ErrMalformedPacket
		}
	}
	if result > MaxRemainingLength {
		return FixedHeader{}, ErrMalformedPacket
	}
	return FixedHeader{Kind: kind, Flags: flags, RemainingLength: result}, nil
}
