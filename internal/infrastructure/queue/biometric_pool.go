package queue

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartballot/voting-api/internal/api/metrics"
	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

type extractResult struct {
	vec []float64
	err error
}

type extractJob struct {
	ctx   context.Context
	img   image.Image
	reply chan extractResult
}

// BiometricPool runs CPU-bound feature extraction on a fixed set of workers
// so model inference never blocks the request-intake path. It wraps an inner
// ports.FeatureExtractor and is itself one, so callers stay agnostic of the
// pooling.
//
// Each submission carries a timeout; past it the caller gets
// domain.ErrBiometricTimeout. If the client disconnects, the submission
// context is cancelled and the in-flight extraction is abandoned.
type BiometricPool struct {
	jobs      chan extractJob
	extractor ports.FeatureExtractor
	workers   int
	timeout   time.Duration
	log       zerolog.Logger
}

// NewBiometricPool creates a pool with numWorkers workers. If numWorkers <= 0,
// defaultWorkers is used.
func NewBiometricPool(numWorkers int, timeout time.Duration, extractor ports.FeatureExtractor, log zerolog.Logger) *BiometricPool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &BiometricPool{
		jobs:      make(chan extractJob, channelBuffer),
		extractor: extractor,
		workers:   numWorkers,
		timeout:   timeout,
		log:       log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (p *BiometricPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
}

// Extract implements ports.FeatureExtractor. It submits the image to the
// pool and waits for the result, the submission timeout, or cancellation,
// whichever comes first.
func (p *BiometricPool) Extract(ctx context.Context, img image.Image) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	job := extractJob{ctx: ctx, img: img, reply: make(chan extractResult, 1)}

	select {
	case p.jobs <- job:
		metrics.BiometricQueueDepth.Set(float64(len(p.jobs)))
	case <-ctx.Done():
		return nil, timeoutErr(ctx.Err())
	}

	select {
	case res := <-job.reply:
		return res.vec, res.err
	case <-ctx.Done():
		return nil, timeoutErr(ctx.Err())
	}
}

func timeoutErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrBiometricTimeout
	}
	return err
}

func (p *BiometricPool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			metrics.BiometricQueueDepth.Set(float64(len(p.jobs)))

			// Caller gave up while the job sat in the queue.
			if err := job.ctx.Err(); err != nil {
				job.reply <- extractResult{err: timeoutErr(err)}
				continue
			}

			start := time.Now()
			vec, err := p.extractor.Extract(job.ctx, job.img)
			metrics.BiometricExtractionDuration.Observe(time.Since(start).Seconds())

			if err != nil && !errors.Is(err, domain.ErrNoFaceDetected) {
				p.log.Debug().Err(err).Int("worker_id", id).Msg("feature extraction failed")
			}
			job.reply <- extractResult{vec: vec, err: timeoutErr(err)}
		}
	}
}
