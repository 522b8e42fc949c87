package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad"
	"golang.org/x/sync/semaphore"
)

// Pool hands out Detectors to goroutines, at most one goroutine per Detector,
// and creates up to MaxSize of them.
type Pool struct {
	Config  webrtcvad.Config
	MaxSize int64

	options   webrtcvad.Options
	semaphore *semaphore.Weighted
	idle      chan *webrtcvad.Detector
	created   atomic.Int64
	inUse     atomic.Int64
	closeOnce sync.Once
	closed    atomic.Bool

	acquiredLocker sync.Mutex
	acquired       map[*webrtcvad.Detector]struct{}
}

// New creates a pool; minSize detectors are created immediately. The options
// are passed to webrtcvad.New for each detector.
func New(
	ctx context.Context,
	cfg webrtcvad.Config,
	minSize int,
	maxSize int,
	opts ...webrtcvad.Option,
) (*Pool, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("the maximal size must be positive, but it is %d", maxSize)
	}
	if minSize < 0 || minSize > maxSize {
		return nil, fmt.Errorf("the minimal size must be in [0, %d], but it is %d", maxSize, minSize)
	}

	p := &Pool{
		Config:    cfg,
		MaxSize:   int64(maxSize),
		options:   append(webrtcvad.Options{webrtcvad.WithConfig(cfg)}, opts...),
		semaphore: semaphore.NewWeighted(int64(maxSize)),
		idle:      make(chan *webrtcvad.Detector, maxSize),
		acquired:  map[*webrtcvad.Detector]struct{}{},
	}
	for i := 0; i < minSize; i++ {
		d, err := p.newDetector(ctx)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("unable to create the initial detector #%d: %w", i, err)
		}
		p.idle <- d
	}
	return p, nil
}

func (p *Pool) newDetector(ctx context.Context) (*webrtcvad.Detector, error) {
	d, err := webrtcvad.New(ctx, p.options...)
	if err != nil {
		return nil, err
	}
	p.created.Add(1)
	return d, nil
}

// Acquire returns an idle detector, creating one if there are none and the
// pool is not full; otherwise it waits until a detector is released or ctx
// is done.
func (p *Pool) Acquire(ctx context.Context) (*webrtcvad.Detector, error) {
	if p.closed.Load() {
		return nil, fmt.Errorf("the pool is closed")
	}
	if err := p.semaphore.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("unable to wait for a free detector: %w", err)
	}

	select {
	case d := <-p.idle:
		p.markAcquired(d)
		return d, nil
	default:
	}

	d, err := p.newDetector(ctx)
	if err != nil {
		p.semaphore.Release(1)
		return nil, fmt.Errorf("unable to create a detector: %w", err)
	}
	p.markAcquired(d)
	logger.Debugf(ctx, "created a detector; total: %d", p.created.Load())
	return d, nil
}

func (p *Pool) markAcquired(d *webrtcvad.Detector) {
	p.acquiredLocker.Lock()
	defer p.acquiredLocker.Unlock()
	p.acquired[d] = struct{}{}
	p.inUse.Add(1)
}

func (p *Pool) unmarkAcquired(d *webrtcvad.Detector) bool {
	p.acquiredLocker.Lock()
	defer p.acquiredLocker.Unlock()
	if _, ok := p.acquired[d]; !ok {
		return false
	}
	delete(p.acquired, d)
	p.inUse.Add(-1)
	return true
}

// Release returns the detector to the pool. The pool configuration is
// restored if the caller has changed it; if that fails the detector is closed.
// A detector closed by the caller is dropped from the pool.
func (p *Pool) Release(ctx context.Context, d *webrtcvad.Detector) error {
	if !p.unmarkAcquired(d) {
		return ErrNotAcquired{}
	}
	defer p.semaphore.Release(1)

	if d.IsClosed() {
		p.created.Add(-1)
		logger.Debugf(ctx, "dropping a closed detector; total: %d", p.created.Load())
		return nil
	}

	if p.closed.Load() {
		p.created.Add(-1)
		return d.Close()
	}

	if d.Config() != p.Config {
		if err := d.Configure(ctx, p.Config); err != nil {
			p.created.Add(-1)
			closeErr := d.Close()
			return multierror.Append(fmt.Errorf("unable to restore the configuration: %w", err), closeErr).ErrorOrNil()
		}
	}

	select {
	case p.idle <- d:
		return nil
	default:
		p.created.Add(-1)
		return d.Close()
	}
}

// Close closes the idle detectors. The detectors in use are closed when
// they are released.
func (p *Pool) Close() error {
	var mErr *multierror.Error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		for {
			select {
			case d := <-p.idle:
				p.created.Add(-1)
				if err := d.Close(); err != nil {
					mErr = multierror.Append(mErr, err)
				}
				continue
			default:
			}
			break
		}
	})
	return mErr.ErrorOrNil()
}

// Stats returns the amounts of existing, used and idle detectors.
func (p *Pool) Stats() (created, inUse, idle int64) {
	created = p.created.Load()
	inUse = p.inUse.Load()
	idle = int64(len(p.idle))
	return
}

// ErrNotAcquired is returned by Release for a detector that is not currently
// acquired from the pool: it was already released or belongs elsewhere.
type ErrNotAcquired struct{}

func (ErrNotAcquired) Error() string {
	return "the detector is not acquired from this pool"
}
