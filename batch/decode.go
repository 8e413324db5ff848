// Package batch fans independent decode calls out across goroutines. Per
// the codec's concurrency model, operations on distinct packets share no
// state, so decoding a batch of already-framed PUBLISH payloads (e.g. ones
// pulled off a queue for bulk replay) is embarrassingly parallel; this
// mirrors the fan-out-with-errgroup idiom the teacher's client used for its
// read/write loops.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/golang-io/mqtt/packet"
)

// DecodePublishAll decodes each frame (the bytes after its fixed header,
// alongside that header) independently and concurrently. It returns the
// decoded packets in the same order as frames, or the first error
// encountered. Each frame's borrowed slices stay valid only as long as the
// corresponding entry in frames does.
func DecodePublishAll(ctx context.Context, version byte, headers []packet.FixedHeader, frames [][]byte) ([]packet.Publish, error) {
	if len(headers) != len(frames) {
		return nil, packet.ErrBadParameter
	}
	out := make([]packet.Publish, len(frames))
	g, _ := errgroup.WithContext(ctx)
	for i := range frames {
		i := i
		g.Go(func() error {
			return packet.DecodePublish(headers[i], version, frames[i], &out[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
