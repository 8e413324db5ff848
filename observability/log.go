package observability

import (
	"errors"

	"go.uber.org/zap"

	"github.com/golang-io/mqtt/packet"
)

// Classify maps a codec error to the short reason string used as the
// "reason" label on DecodeErrors and as the event kind logged by Logger.
// Unrecognized errors (there shouldn't be any, since the codec only ever
// returns its own taxonomy) classify as "unknown" rather than panicking.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, packet.ErrBadParameter):
		return "bad_parameter"
	case errors.Is(err, packet.ErrNoMemory):
		return "no_memory"
	case errors.Is(err, packet.ErrBadResponse):
		return "bad_response"
	case errors.Is(err, packet.ErrMalformedPacket):
		return "malformed_packet"
	case errors.Is(err, packet.ErrProtocolError):
		return "protocol_error"
	case errors.Is(err, packet.ErrServerRefused):
		return "server_refused"
	case errors.Is(err, packet.ErrNoDataAvailable):
		return "no_data_available"
	case errors.Is(err, packet.ErrRecvFailed):
		return "recv_failed"
	case errors.Is(err, packet.ErrNeedMoreBytes):
		return "need_more_bytes"
	default:
		return "unknown"
	}
}

// Logger emits structured events for codec outcomes. The zero value logs
// nothing - callers that don't configure one get silence, matching the
// design note that logging must compile out without behavioral change.
type Logger struct {
	l *zap.Logger
}

// NewLogger wraps a *zap.Logger for codec event logging.
func NewLogger(l *zap.Logger) Logger {
	return Logger{l: l}
}

// LogDecodeError logs a classified decode failure for the given packet kind.
func (lg Logger) LogDecodeError(kind string, err error) {
	if lg.l == nil || err == nil {
		return
	}
	lg.l.Warn("mqtt packet decode failed",
		zap.String("kind", kind),
		zap.String("reason", Classify(err)),
		zap.Error(err),
	)
}

// LogServerRefusal logs a structurally valid CONNACK/SUBACK that refused
// the request, at info rather than warn severity since it's not a protocol
// violation.
func (lg Logger) LogServerRefusal(kind string, reasonCode uint8) {
	if lg.l == nil {
		return
	}
	lg.l.Info("mqtt server refused request",
		zap.String("kind", kind),
		zap.Uint8("reason_code", reasonCode),
	)
}
