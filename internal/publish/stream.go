package publish

import (
	"context"
	"errors"

	"ghpages.dev/ghpages/internal/config"
	ghperrors "ghpages.dev/ghpages/internal/errors"
)

// ErrStreamEnded is returned by writes after End
var ErrStreamEnded = errors.New("stream already ended")

// Batch accumulates the files of one publish run in arrival order
type Batch struct {
	files []*File
}

// Add appends f to the batch
func (b *Batch) Add(f *File) {
	b.files = append(b.files, f)
}

// Len returns the number of collected files
func (b *Batch) Len() int {
	return len(b.files)
}

// Files returns the collected files
func (b *Batch) Files() []*File {
	return b.files
}

// Stream collects files for a single publish run. Null records are emitted
// as soon as they arrive; everything else is held until End publishes the
// batch. A stream is not safe for concurrent writers.
type Stream struct {
	publisher *Publisher
	opts      config.Options
	emit      func(*File)
	batch     Batch
	err       error
	ended     bool
}

// NewStream starts a publish run for opts. emit receives every file once it
// has been handled and may be nil.
func (p *Publisher) NewStream(opts config.Options, emit func(*File)) *Stream {
	if emit == nil {
		emit = func(*File) {}
	}
	return &Stream{publisher: p, opts: opts, emit: emit}
}

// Write adds f to the run. A streamed record fails the whole run; the error
// is returned again by every later Write and by End.
func (s *Stream) Write(f *File) error {
	if s.err != nil {
		return s.err
	}
	if s.ended {
		return ErrStreamEnded
	}

	switch {
	case f == nil || f.IsNull():
		s.emit(f)
	case f.IsStream():
		s.err = ghperrors.NewUnsupportedContentError(f.Path)
		return s.err
	default:
		s.batch.Add(f)
	}
	return nil
}

// End publishes the collected batch
func (s *Stream) End(ctx context.Context) (*Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.ended {
		return nil, ErrStreamEnded
	}
	s.ended = true
	return s.publisher.publishBatch(ctx, s.opts, &s.batch, s.emit)
}

// Pipe publishes every file received from in, forwarding handled files to
// out. It returns once in is closed and the batch is published, or when ctx
// is cancelled. out is closed on return.
func Pipe(ctx context.Context, p *Publisher, opts config.Options, in <-chan *File, out chan<- *File) (*Result, error) {
	defer close(out)

	emit := func(f *File) {
		select {
		case out <- f:
		case <-ctx.Done():
		}
	}
	stream := p.NewStream(opts, emit)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case f, ok := <-in:
			if !ok {
				return stream.End(ctx)
			}
			if err := stream.Write(f); err != nil {
				return nil, err
			}
		}
	}
}
