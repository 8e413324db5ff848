// Package observability provides the thin, optional capability the codec's
// design notes call for: classified events in, metrics and structured logs
// out. Nothing in package packet imports this - a caller that wants
// observability wraps its own encode/decode calls and feeds the outcome
// here; a caller that doesn't can delete the import and nothing in the
// codec changes behavior.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts packets and bytes crossing the codec, and classifies
// failures by the error taxonomy in package packet. Grounded on the
// teacher's Stat type, trimmed to counters that make sense for a codec with
// no connection or session state of its own.
type Metrics struct {
	PacketsEncoded *prometheus.CounterVec
	PacketsDecoded *prometheus.CounterVec
	BytesEncoded   prometheus.Counter
	BytesDecoded   prometheus.Counter
	DecodeErrors   *prometheus.CounterVec
}

// NewMetrics builds a Metrics and registers it with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PacketsEncoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mqtt_codec_packets_encoded_total",
			Help: "Control packets serialized, by packet type.",
		}, []string{"kind"}),
		PacketsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mqtt_codec_packets_decoded_total",
			Help: "Control packets deserialized, by packet type.",
		}, []string{"kind"}),
		BytesEncoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_codec_bytes_encoded_total",
			Help: "Bytes written by the serializer.",
		}),
		BytesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_codec_bytes_decoded_total",
			Help: "Bytes consumed by the deserializer.",
		}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mqtt_codec_decode_errors_total",
			Help: "Decode failures, by error taxonomy kind (malformed_packet, protocol_error, bad_response, ...).",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.PacketsEncoded, m.PacketsDecoded, m.BytesEncoded, m.BytesDecoded, m.DecodeErrors)
	return m
}

// ObserveEncode records a successful serialize call.
func (m *Metrics) ObserveEncode(kind string, n int) {
	m.PacketsEncoded.WithLabelValues(kind).Inc()
	m.BytesEncoded.Add(float64(n))
}

// ObserveDecode records a successful deserialize call.
func (m *Metrics) ObserveDecode(kind string, n int) {
	m.PacketsDecoded.WithLabelValues(kind).Inc()
	m.BytesDecoded.Add(float64(n))
}

// ObserveDecodeError records a classified decode failure.
func (m *Metrics) ObserveDecodeError(reason string) {
	m.DecodeErrors.WithLabelValues(reason).Inc()
}
