// Package loader reads entity models from local files and S3 objects in
// JSON or YAML, optionally snappy-compressed.
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// DefaultMaxBytes caps the size of a single model source
const DefaultMaxBytes = 64 << 20

// Loader loads models by source name. It is safe for concurrent use.
type Loader struct {
	logger   logging.Logger
	metrics  *metrics.Registry
	maxBytes int64

	s3Opts   S3Options
	s3Mu     sync.Mutex
	s3Client ObjectGetter
}

// Option configures a Loader
type Option func(*Loader)

// WithS3Options sets how the S3 client is built on first use
func WithS3Options(opts S3Options) Option {
	return func(l *Loader) { l.s3Opts = opts }
}

// WithS3Client supplies a ready client instead
func WithS3Client(c ObjectGetter) Option {
	return func(l *Loader) { l.s3Client = c }
}

// WithMaxBytes overrides DefaultMaxBytes
func WithMaxBytes(n int64) Option {
	return func(l *Loader) { l.maxBytes = n }
}

// New creates a loader. logger and reg may be nil.
func New(logger logging.Logger, reg *metrics.Registry, opts ...Option) *Loader {
	l := &Loader{
		logger:   logging.OrNop(logger).With(logging.Component("loader")),
		metrics:  reg,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the model at source, a file path or s3://bucket/key.
func (l *Loader) Load(ctx context.Context, source string) (nodes []model.EntityNode, err error) {
	format, compressed, err := DetectFormat(source)
	if err != nil {
		return nil, err
	}

	timer := logging.StartTimer(l.logger, "model loaded", logging.Source(source))
	defer func() {
		if l.metrics != nil {
			l.metrics.RecordModelLoad(string(format), err)
		}
		if err != nil {
			timer.EndError(err)
			return
		}
		timer.End(logging.Count(len(nodes)))
	}()

	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}

	if compressed {
		return decodeCompressed(data, format, l.maxBytes)
	}
	return Decode(data, format)
}

// LoadReader decodes a model from r; name only selects the format.
func (l *Loader) LoadReader(r io.Reader, name string) ([]model.EntityNode, error) {
	format, compressed, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	data, err := readLimited(r, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if compressed {
		return decodeCompressed(data, format, l.maxBytes)
	}
	return Decode(data, format)
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, S3Scheme) {
		bucket, key, err := ParseS3URI(source)
		if err != nil {
			return nil, err
		}
		client, err := l.s3(ctx)
		if err != nil {
			return nil, err
		}
		return fetchObject(ctx, client, bucket, key, l.maxBytes)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	data, err := readLimited(f, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return data, nil
}

func (l *Loader) s3(ctx context.Context) (ObjectGetter, error) {
	l.s3Mu.Lock()
	defer l.s3Mu.Unlock()

	if l.s3Client == nil {
		client, err := NewS3Client(ctx, l.s3Opts)
		if err != nil {
			return nil, err
		}
		l.s3Client = client
	}
	return l.s3Client, nil
}
