package player

import (
	"net/http"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/rs/zerolog"

	"github.com/llehouerou/remu/internal/loader"
	"github.com/llehouerou/remu/internal/output"
)

// DefaultVolume is the initial volume when none is configured.
const DefaultVolume = 1.0

type options struct {
	log    zerolog.Logger
	device output.Device
	sink   output.Options
	loader loader.Options
}

func defaultOptions() options {
	return options{
		log:    zerolog.Nop(),
		sink:   output.DefaultOptions(),
		loader: loader.DefaultOptions(),
	}
}

// Option configures a Player.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithDevice renders to dev instead of the system's default output.
func WithDevice(dev output.Device) Option {
	return func(o *options) { o.device = dev }
}

// WithHeadlessOutput renders to a silent device clocked in real time, for
// hosts without audio hardware.
func WithHeadlessOutput() Option {
	return func(o *options) { o.device = output.NewNullDevice(true) }
}

// WithSampleRate sets the output device sample rate. Sources at other rates
// are resampled.
func WithSampleRate(rate int) Option {
	return func(o *options) { o.sink.SampleRate = beep.SampleRate(rate) }
}

// WithBuffer sets the output device buffer duration.
func WithBuffer(d time.Duration) Option {
	return func(o *options) { o.sink.Buffer = d }
}

// WithResampleQuality sets beep's resampling quality (1 to 64).
func WithResampleQuality(q int) Option {
	return func(o *options) { o.sink.ResampleQuality = q }
}

// WithVolume sets the initial volume.
func WithVolume(v float64) Option {
	return func(o *options) { o.sink.Volume = v }
}

// WithHTTPClient sets the client used for URL loads.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.loader.Client = c }
}

// WithHTTPTimeout bounds each URL request. Zero disables the bound.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) { o.loader.Timeout = d }
}

// WithUserAgent sets the User-Agent header of URL requests.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.loader.UserAgent = ua }
}

// WithMaxBytes rejects URL responses larger than n bytes. Zero is unlimited.
func WithMaxBytes(n int64) Option {
	return func(o *options) { o.loader.MaxBytes = n }
}
