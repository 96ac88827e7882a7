package ratelimit

import (
	"context"
	"io"
	"math"

	"golang.org/x/time/rate"
)

// minBurst keeps small limits from splitting every read into tiny chunks
const minBurst = 65536

// Limiter is a token bucket shared by every reader of a cycle, so the limit
// applies to the aggregate transfer rate.
type Limiter struct {
	bytesPerSecond int64
	burst          int
	limiter        *rate.Limiter
}

// NewLimiter creates a limiter for bytesPerSecond. A non-positive rate
// disables limiting and returns nil.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	// One second worth of data, at least 64KB
	burst := bytesPerSecond
	if burst < minBurst {
		burst = minBurst
	}
	if burst > math.MaxInt32 {
		burst = math.MaxInt32
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		burst:          int(burst),
		limiter:        rate.NewLimiter(rate.Limit(bytesPerSecond), int(burst)),
	}
}

// Wrap returns r throttled by l. A nil limiter returns r unchanged.
func (l *Limiter) Wrap(ctx context.Context, r io.Reader) io.Reader {
	if l == nil {
		return r
	}
	return &Reader{reader: r, limiter: l, ctx: ctx}
}

// Wait blocks until n bytes may be transferred or ctx is done. n is capped
// to the burst size.
func (l *Limiter) Wait(ctx context.Context, n int) error {
	if n > l.burst {
		n = l.burst
	}
	return l.limiter.WaitN(ctx, n)
}

// Reader is an io.Reader throttled by a Limiter
type Reader struct {
	reader  io.Reader
	limiter *Limiter
	ctx     context.Context
}

// Read reads at most one burst of data once enough tokens are available
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) > r.limiter.burst {
		p = p[:r.limiter.burst]
	}
	if err := r.limiter.Wait(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.reader.Read(p)
}
