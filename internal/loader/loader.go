// Package loader resolves a file path or URL into a decoded source ready to
// attach to an output sink.
//
// A load runs through three milestones, each reported to the caller:
// metadata (container probed, format and duration known), data (the first
// frame decoded) and ready (rewound for playback). The caller's Reporter can
// refuse any milestone, which abandons the load and releases its resources.
package loader

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/remu"
	"github.com/llehouerou/remu/internal/decode"
	"github.com/llehouerou/remu/internal/tags"
)

// Step is a load milestone.
type Step int

const (
	StepMetadata Step = iota
	StepData
	StepReady
)

// String returns the milestone name.
func (s Step) String() string {
	switch s {
	case StepMetadata:
		return "metadata"
	case StepData:
		return "data"
	case StepReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Reporter is told about each milestone in order. Returning false abandons
// the load; the Source must not be retained in that case. After a true
// return at StepReady the caller owns the Source.
type Reporter func(Step, *Source) bool

// Options configures URL loads.
type Options struct {
	Client    *http.Client
	Timeout   time.Duration // whole request, 0 for none
	UserAgent string
	MaxBytes  int64 // 0 for unlimited
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Client:    http.DefaultClient,
		Timeout:   30 * time.Second,
		UserAgent: "remu/1.0",
	}
}

// Loader runs load pipelines. It is safe for concurrent use.
type Loader struct {
	opts Options
}

// New returns a Loader.
func New(opts Options) *Loader {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &Loader{opts: opts}
}

// errNoAudio means the stream decoded without yielding a single frame.
var errNoAudio = errors.New("no audio frames")

// Load runs the pipeline for d. Cancelling ctx abandons the load at the next
// step boundary with an error of kind remu.ErrAborted. A Reporter refusal
// also yields remu.ErrAborted. The logger is taken from ctx.
func (l *Loader) Load(ctx context.Context, d Descriptor, report Reporter) (*Source, error) {
	log := zerolog.Ctx(ctx).With().Str("origin", d.Origin).Logger()

	b, err := l.acquire(ctx, d)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("kind", d.Kind.String()).Str("size", humanize.IBytes(uint64(max(b.size, 0)))).Msg("source acquired")

	src, err := l.open(ctx, d, b)
	if err != nil {
		b.Close()
		return nil, err
	}
	log.Debug().
		Str("id", src.ID.String()).
		Str("codec", string(src.Codec)).
		Int("sample_rate", int(src.Format.SampleRate)).
		Int("channels", src.Format.NumChannels).
		Msg("metadata parsed")

	if !report(StepMetadata, src) {
		return nil, l.abandon(src, remu.OpProbe, nil)
	}

	if err := prime(src); err != nil {
		src.Close()
		return nil, remu.NewError(remu.OpDecode, d.Origin, remu.ErrDecode, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, l.abandon(src, remu.OpDecode, err)
	}
	if !report(StepData, src) {
		return nil, l.abandon(src, remu.OpDecode, nil)
	}
	if !report(StepReady, src) {
		return nil, l.abandon(src, remu.OpDecode, nil)
	}
	log.Debug().Str("id", src.ID.String()).Msg("source ready")
	return src, nil
}

func (l *Loader) acquire(ctx context.Context, d Descriptor) (*body, error) {
	if err := ctx.Err(); err != nil {
		return nil, aborted(remu.OpOpenFile, d.Origin, err)
	}
	if d.Kind == KindURL {
		return l.fetch(ctx, d.Origin)
	}
	return l.openFile(ctx, d.Origin)
}

// open probes the container, reads tags and decodes the stream header.
// On success the Source owns b.
func (l *Loader) open(ctx context.Context, d Descriptor, b *body) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, aborted(remu.OpProbe, d.Origin, err)
	}
	c, err := decode.Probe(b, d.Origin, b.contentType)
	if err != nil {
		return nil, remu.NewError(remu.OpProbe, d.Origin, remu.ErrDecode, err)
	}

	t, err := tags.Read(b)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("origin", d.Origin).Msg("no tags")
		t = nil
	}

	if err := ctx.Err(); err != nil {
		return nil, aborted(remu.OpDecode, d.Origin, err)
	}
	s, err := decode.Open(b, c)
	if err != nil {
		return nil, remu.NewError(remu.OpDecode, d.Origin, remu.ErrDecode, err)
	}
	return &Source{
		ID:         uuid.New(),
		Descriptor: d,
		Container:  c,
		Size:       b.size,
		Tags:       t,
		Stream:     s,
	}, nil
}

func (l *Loader) abandon(src *Source, op remu.Op, cause error) error {
	src.Close()
	return aborted(op, src.Descriptor.Origin, cause)
}

// prime decodes the first frames and rewinds, proving the stream plays.
func prime(s *Source) error {
	buf := make([][2]float64, 512)
	n, ok := s.Stream.Stream(buf)
	if !ok || n == 0 {
		if err := s.Err(); err != nil {
			return err
		}
		return errNoAudio
	}
	return s.Seek(0)
}
