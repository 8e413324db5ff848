package packet

// MQTT 5 property-block codec. The block is a varint length followed by a
// concatenation of (identifier byte, value) records; each identifier has a
// fixed wire shape (table below) and per-property occurrence, range and
// cross-field rules (section 4.6 of the codec note set this is grounded on).
//
// The decode loop is a single dispatch keyed on propertyTable rather than a
// hand-rolled switch per property: each entry names the property's allowed
// packet contexts, whether it may repeat, and the function that reads its
// value off the wire.

// MaxUserProperties bounds how many User-Property (0x26) pairs a single
// decode call will retain; a CONNACK with more than this many is rejected
// with ErrProtocolError rather than grown without bound.
const MaxUserProperties = 16

// propCtx is a bitmask of the packet contexts a property is legal in.
type propCtx uint16

const (
	ctxConnect propCtx = 1 << iota
	ctxConnack
	ctxPublish
	ctxWill
	ctxDisconnect
	ctxAuth
	ctxAck // PUBACK, PUBREC, PUBREL, PUBCOMP
	ctxSuback
	ctxUnsuback
	ctxSubscribe
	ctxUnsubscribe
)

// UserProperty is a single User-Property (0x26) name/value pair. Both slices
// are borrowed from the decoded input buffer.
type UserProperty struct {
	Key   []byte
	Value []byte
}

// PropertySet holds every MQTT 5 property this codec understands. Callers
// populate only the fields relevant to the packet they are building;
// decoders populate only the fields present on the wire. Byte-slice fields
// borrow from the input buffer they were decoded from and are valid only for
// the lifetime of that buffer. Topic Alias and Subscription Identifier
// *usage* (i.e. maintaining an alias table or correlating subscriptions) are
// session state and out of scope; Subscription Identifier is still decoded
// here since section 4.6 calls it out by name as a repeatable property.
type PropertySet struct {
	PayloadFormatIndicator          *uint8
	MessageExpiryInterval           *uint32
	ContentType                     []byte
	ResponseTopic                   []byte
	CorrelationData                 []byte
	SessionExpiryInterval           *uint32
	AssignedClientIdentifier        []byte
	ServerKeepAlive                 *uint16
	AuthenticationMethod            []byte
	AuthenticationData              []byte
	RequestProblemInformation       *uint8
	WillDelayInterval                *uint32
	RequestResponseInformation       *uint8
	ResponseInformation              []byte
	ServerReference                  []byte
	ReasonString                     []byte
	ReceiveMaximum                   *uint16
	TopicAliasMaximum                *uint16
	MaximumQoS                       *uint8
	RetainAvailable                  *uint8
	MaximumPacketSize                 *uint32
	WildcardSubscriptionAvailable      *uint8
	SubscriptionIdentifierAvailable    *uint8
	SharedSubscriptionAvailable        *uint8
	SubscriptionIdentifiers            []uint32

	UserProperties    [MaxUserProperties]UserProperty
	NumUserProperties int
}

type propertyDescriptor struct {
	name       string
	allowed    propCtx
	repeatable bool
	decode     func(ps *PropertySet, data []byte) (consumed int, err error)
}

func decodeU8(setter func(*PropertySet, uint8)) func(*PropertySet, []byte) (int, error) {
	return func(ps *PropertySet, data []byte) (int, error) {
		if len(data) < 1 {
			return 0, ErrMalformedPacket
		}
		setter(ps, data[0])
		return 1, nil
	}
}

func decodeU16(setter func(*PropertySet, uint16)) func(*PropertySet, []byte) (int, error) {
	return func(ps *PropertySet, data []byte) (int, error) {
		if len(data) < 2 {
			return 0, ErrMalformedPacket
		}
		setter(ps, getUint16(data))
		return 2, nil
	}
}

func decodeU32(setter func(*PropertySet, uint32)) func(*PropertySet, []byte) (int, error) {
	return func(ps *PropertySet, data []byte) (int, error) {
		if len(data) < 4 {
			return 0, ErrMalformedPacket
		}
		setter(ps, getUint32(data))
		return 4, nil
	}
}

func decodeStr(setter func(*PropertySet, []byte)) func(*PropertySet, []byte) (int, error) {
	return func(ps *PropertySet, data []byte) (int, error) {
		v, n, err := getPrefixed(data)
		if err != nil {
			return 0, err
		}
		setter(ps, v)
		return n, nil
	}
}

var propertyTable = map[byte]propertyDescriptor{
	0x01: {"Payload-Format-Indicator", ctxPublish | ctxWill, false, decodeU8(func(ps *PropertySet, v uint8) { ps.PayloadFormatIndicator = &v })},
	0x02: {"Message-Expiry-Interval", ctxPublish | ctxWill, false, decodeU32(func(ps *PropertySet, v uint32) { ps.MessageExpiryInterval = &v })},
	0x03: {"Content-Type", ctxPublish | ctxWill, false, decodeStr(func(ps *PropertySet, v []byte) { ps.ContentType = v })},
	0x08: {"Response-Topic", ctxPublish | ctxWill, false, decodeStr(func(ps *PropertySet, v []byte) { ps.ResponseTopic = v })},
	0x09: {"Correlation-Data", ctxPublish | ctxWill, false, decodeStr(func(ps *PropertySet, v []byte) { ps.CorrelationData = v })},
	0x0B: {"Subscription-Identifier", ctxPublish | ctxSubscribe, true, func(ps *PropertySet, data []byte) (int, error) {
		v, n, err := decodeVarInt(data)
		if err != nil {
			return 0, err
		}
		if len(ps.SubscriptionIdentifiers) >= MaxUserProperties {
			return 0, ErrProtocolError
		}
		ps.SubscriptionIdentifiers = append(ps.SubscriptionIdentifiers, v)
		return n, nil
	}},
	0x11: {"Session-Expiry-Interval", ctxConnect | ctxConnack | ctxDisconnect, false, decodeU32(func(ps *PropertySet, v uint32) { ps.SessionExpiryInterval = &v })},
	0x12: {"Assigned-Client-Identifier", ctxConnack, false, decodeStr(func(ps *PropertySet, v []byte) { ps.AssignedClientIdentifier = v })},
	0x13: {"Server-Keep-Alive", ctxConnack, false, decodeU16(func(ps *PropertySet, v uint16) { ps.ServerKeepAlive = &v })},
	0x15: {"Authentication-Method", ctxConnect | ctxConnack | ctxAuth, false, decodeStr(func(ps *PropertySet, v []byte) { ps.AuthenticationMethod = v })},
	0x16: {"Authentication-Data", ctxConnect | ctxConnack | ctxAuth, false, decodeStr(func(ps *PropertySet, v []byte) { ps.AuthenticationData = v })},
	0x17: {"Request-Problem-Information", ctxConnect, false, decodeU8(func(ps *PropertySet, v uint8) { ps.RequestProblemInformation = &v })},
	0x18: {"Will-Delay-Interval", ctxWill, false, decodeU32(func(ps *PropertySet, v uint32) { ps.WillDelayInterval = &v })},
	0x19: {"Request-Response-Information", ctxConnect, false, decodeU8(func(ps *PropertySet, v uint8) { ps.RequestResponseInformation = &v })},
	0x1A: {"Response-Information", ctxConnack, false, decodeStr(func(ps *PropertySet, v []byte) { ps.ResponseInformation = v })},
	0x1C: {"Server-Reference", ctxConnack | ctxDisconnect, false, decodeStr(func(ps *PropertySet, v []byte) { ps.ServerReference = v })},
	0x1F: {"Reason-String", ctxConnack | ctxAck | ctxSuback | ctxUnsuback | ctxDisconnect | ctxAuth, false, decodeStr(func(ps *PropertySet, v []byte) { ps.ReasonString = v })},
	0x21: {"Receive-Maximum", ctxConnect | ctxConnack, false, decodeU16(func(ps *PropertySet, v uint16) { ps.ReceiveMaximum = &v })},
	0x22: {"Topic-Alias-Maximum", ctxConnect | ctxConnack, false, decodeU16(func(ps *PropertySet, v uint16) { ps.TopicAliasMaximum = &v })},
	0x24: {"Maximum-QoS", ctxConnack, false, decodeU8(func(ps *PropertySet, v uint8) { ps.MaximumQoS = &v })},
	0x25: {"Retain-Available", ctxConnack, false, decodeU8(func(ps *PropertySet, v uint8) { ps.RetainAvailable = &v })},
	0x26: {"User-Property", ctxConnect | ctxConnack | ctxPublish | ctxWill | ctxAck | ctxSuback | ctxUnsuback | ctxDisconnect | ctxAuth | ctxSubscribe | ctxUnsubscribe, true, func(ps *PropertySet, data []byte) (int, error) {
		key, n1, err := getPrefixed(data)
		if err != nil {
			return 0, err
		}
		val, n2, err := getPrefixed(data[n1:])
		if err != nil {
			return 0, err
		}
		if ps.NumUserProperties >= MaxUserProperties {
			return 0, ErrProtocolError
		}
		ps.UserProperties[ps.NumUserProperties] = UserProperty{Key: key, Value: val}
		ps.NumUserProperties++
		return n1 + n2, nil
	}},
	0x27: {"Maximum-Packet-Size", ctxConnect | ctxConnack, false, decodeU32(func(ps *PropertySet, v uint32) { ps.MaximumPacketSize = &v })},
	0x28: {"Wildcard-Subscription-Available", ctxConnack, false, decodeU8(func(ps *PropertySet, v uint8) { ps.WildcardSubscriptionAvailable = &v })},
	0x29: {"Subscription-Identifier-Available", ctxConnack, false, decodeU8(func(ps *PropertySet, v uint8) { ps.SubscriptionIdentifierAvailable = &v })},
	0x2A: {"Shared-Subscription-Available", ctxConnack, false, decodeU8(func(ps *PropertySet, v uint8) { ps.SharedSubscriptionAvailable = &v })},
}

// seenIndex maps an identifier byte to a bit position in the "seen" set used
// to reject repeats of single-occurrence properties.
func seenIndex(id byte) uint { return uint(id) }

// decodeProperties reads a full property block (length prefix + records)
// starting at data[0] and returns the number of bytes consumed, including
// the length prefix. ctx restricts which properties are legal here. Rules
// that span packets - Response-Information and Authentication-Data/Method
// requiring something the peer's CONNECT already sent - aren't derivable
// from a single block and are enforced by the caller instead (see
// DecodeConnack's connectCtx parameter).
func decodeProperties(data []byte, ctx propCtx, ps *PropertySet) (consumed int, err error) {
	propLen, n, err := decodeVarInt(data)
	if err != nil {
		return 0, err
	}
	if uint32(len(data)-n) < propLen {
		return 0, ErrMalformedPacket
	}
	block := data[n : n+int(propLen)]
	var seen [256]bool
	pos := 0
	for pos < len(block) {
		id := block[pos]
		desc, ok := propertyTable[id]
		if !ok {
			return 0, ErrMalformedPacket
		}
		if desc.allowed&ctx == 0 {
			return 0, ErrProtocolError
		}
		if !desc.repeatable {
			if seen[seenIndex(id)] {
				return 0, ErrProtocolError
			}
			seen[seenIndex(id)] = true
		}
		used, derr := desc.decode(ps, block[pos+1:])
		if derr != nil {
			return 0, derr
		}
		pos += 1 + used
	}
	if pos != len(block) {
		return 0, ErrMalformedPacket
	}
	if err := validateProperties(ps); err != nil {
		return 0, err
	}
	return n + int(propLen), nil
}

// validateProperties enforces the range and cross-field rules that can't be
// expressed in a per-identifier decode function alone.
func validateProperties(ps *PropertySet) error {
	if ps.ReceiveMaximum != nil && *ps.ReceiveMaximum == 0 {
		return ErrProtocolError
	}
	if ps.MaximumPacketSize != nil && *ps.MaximumPacketSize == 0 {
		return ErrProtocolError
	}
	if ps.MaximumQoS != nil && *ps.MaximumQoS > 1 {
		return ErrProtocolError
	}
	if ps.RequestProblemInformation != nil && *ps.RequestProblemInformation > 1 {
		return ErrProtocolError
	}
	if ps.RequestResponseInformation != nil && *ps.RequestResponseInformation > 1 {
		return ErrProtocolError
	}
	if ps.PayloadFormatIndicator != nil && *ps.PayloadFormatIndicator > 1 {
		return ErrProtocolError
	}
	if ps.AuthenticationData != nil && ps.AuthenticationMethod == nil {
		return ErrProtocolError
	}
	return nil
}

// sizeProperties computes the byte length of the property records
// themselves (not including their own length prefix).
func sizeProperties(ps *PropertySet) uint32 {
	if ps == nil {
		return 0
	}
	var n uint32
	if ps.PayloadFormatIndicator != nil {
		n += 2
	}
	if ps.MessageExpiryInterval != nil {
		n += 5
	}
	if ps.ContentType != nil {
		n += 3 + uint32(len(ps.ContentType))
	}
	if ps.ResponseTopic != nil {
		n += 3 + uint32(len(ps.ResponseTopic))
	}
	if ps.CorrelationData != nil {
		n += 3 + uint32(len(ps.CorrelationData))
	}
	for _, id := range ps.SubscriptionIdentifiers {
		n += 1 + uint32(varIntSize(id))
	}
	if ps.SessionExpiryInterval != nil {
		n += 5
	}
	if ps.AssignedClientIdentifier != nil {
		n += 3 + uint32(len(ps.AssignedClientIdentifier))
	}
	if ps.ServerKeepAlive != nil {
		n += 3
	}
	if ps.AuthenticationMethod != nil {
		n += 3 + uint32(len(ps.AuthenticationMethod))
	}
	if ps.AuthenticationData != nil {
		n += 3 + uint32(len(ps.AuthenticationData))
	}
	if ps.RequestProblemInformation != nil {
		n += 2
	}
	if ps.WillDelayInterval != nil {
		n += 5
	}
	if ps.RequestResponseInformation != nil {
		n += 2
	}
	if ps.ResponseInformation != nil {
		n += 3 + uint32(len(ps.ResponseInformation))
	}
	if ps.ServerReference != nil {
		n += 3 + uint32(len(ps.ServerReference))
	}
	if ps.ReasonString != nil {
		n += 3 + uint32(len(ps.ReasonString))
	}
	if ps.ReceiveMaximum != nil {
		n += 3
	}
	if ps.TopicAliasMaximum != nil {
		n += 3
	}
	if ps.MaximumQoS != nil {
		n += 2
	}
	if ps.RetainAvailable != nil {
		n += 2
	}
	for i := 0; i < ps.NumUserProperties; i++ {
		up := ps.UserProperties[i]
		n += 5 + uint32(len(up.Key)) + uint32(len(up.Value))
	}
	if ps.MaximumPacketSize != nil {
		n += 5
	}
	if ps.WildcardSubscriptionAvailable != nil {
		n += 2
	}
	if ps.SubscriptionIdentifierAvailable != nil {
		n += 2
	}
	if ps.SharedSubscriptionAvailable != nil {
		n += 2
	}
	return n
}

// encodeProperties writes the varint length prefix followed by every
// populated property in ps, in ascending identifier order, and returns the
// number of bytes written.
func encodeProperties(dst []byte, ps *PropertySet) int {
	propLen := sizeProperties(ps)
	off := encodeVarInt(dst, propLen)
	if ps == nil {
		return off
	}
	writeU8 := func(id byte, v *uint8) {
		if v == nil {
			return
		}
		dst[off] = id
		off++
		dst[off] = *v
		off++
	}
	writeU16 := func(id byte, v *uint16) {
		if v == nil {
			return
		}
		dst[off] = id
		off++
		putUint16(dst[off:], *v)
		off += 2
	}
	writeU32 := func(id byte, v *uint32) {
		if v == nil {
			return
		}
		dst[off] = id
		off++
		putUint32(dst[off:], *v)
		off += 4
	}
	writeStr := func(id byte, v []byte) {
		if v == nil {
			return
		}
		dst[off] = id
		off++
		off += putPrefixed(dst[off:], v)
	}

	writeU8(0x01, ps.PayloadFormatIndicator)
	writeU32(0x02, ps.MessageExpiryInterval)
	writeStr(0x03, ps.ContentType)
	writeStr(0x08, ps.ResponseTopic)
	writeStr(0x09, ps.CorrelationData)
	for _, id := range ps.SubscriptionIdentifiers {
		dst[off] = 0x0B
		off++
		off += encodeVarInt(dst[off:], id)
	}
	writeU32(0x11, ps.SessionExpiryInterval)
	writeStr(0x12, ps.AssignedClientIdentifier)
	writeU16(0x13, ps.ServerKeepAlive)
	writeStr(0x15, ps.AuthenticationMethod)
	writeStr(0x16, ps.AuthenticationData)
	writeU8(0x17, ps.RequestProblemInformation)
	writeU32(0x18, ps.WillDelayInterval)
	writeU8(0x19, ps.RequestResponseInformation)
	writeStr(0x1A, ps.ResponseInformation)
	writeStr(0x1C, ps.ServerReference)
	writeStr(0x1F, ps.ReasonString)
	writeU16(0x21, ps.ReceiveMaximum)
	writeU16(0x22, ps.TopicAliasMaximum)
	writeU8(0x24, ps.MaximumQoS)
	writeU8(0x25, ps.RetainAvailable)
	for i := 0; i < ps.NumUserProperties; i++ {
		up := ps.UserProperties[i]
		dst[off] = 0x26
		off++
		off += putPrefixed(dst[off:], up.Key)
		off += putPrefixed(dst[off:], up.Value)
	}
	writeU32(0x27, ps.MaximumPacketSize)
	writeU8(0x28, ps.WildcardSubscriptionAvailable)
	writeU8(0x29, ps.SubscriptionIdentifierAvailable)
	writeU8(0x2A, ps.SharedSubscriptionAvailable)
	return off
}
