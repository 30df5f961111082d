package mesh

import "github.com/sells-group/zonemesh/internal/model"

// Request starts a background build.
type Request struct {
	Samples []model.Sample
	Options Options
}

// Ready carries the complete outcome of a background build.
type Ready struct {
	Result *Result
	Err    error
}

// Offload runs Build on its own goroutine and delivers exactly one Ready on
// the returned channel. There are no partial results and no cancellation: a
// caller that stops waiting simply drops the channel, and the buffered send
// lets the goroutine exit once the build finishes.
func Offload(req Request) <-chan Ready {
	ch := make(chan Ready, 1)
	go func() {
		res, err := Build(req.Samples, req.Options)
		ch <- Ready{Result: res, Err: err}
	}()
	return ch
}
