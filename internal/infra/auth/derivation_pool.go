package auth

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"library/config"
	"library/internal/domain/service"
	"library/internal/errors"

	"go.uber.org/fx"
	"golang.org/x/sync/semaphore"
)

// Observer receives the outcome of every derivation run by a DerivationPool.
type Observer interface {
	ObserveHash(elapsed time.Duration, err error)
	ObserveVerify(elapsed time.Duration, match bool, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveHash(time.Duration, error)         {}
func (nopObserver) ObserveVerify(time.Duration, bool, error) {}

// DerivationPool caps the number of PBKDF2 derivations running at once.
// Derivation is CPU-bound, so running more than one per core only adds latency.
type DerivationPool struct {
	hasher   service.PasswordHasher
	slots    *semaphore.Weighted
	workers  int
	observer Observer
	logger   *slog.Logger
}

// DerivationPoolParams holds dependencies for the pool, injected by Fx.
type DerivationPoolParams struct {
	fx.In

	Hasher   service.PasswordHasher
	Config   *config.Config
	Observer Observer `optional:"true"`
	Logger   *slog.Logger
}

// NewDerivationPoolFromParams is the Fx provider for the pool.
func NewDerivationPoolFromParams(params DerivationPoolParams) service.CredentialDeriver {
	workers := 0
	if params.Config != nil && params.Config.Credential != nil {
		workers = params.Config.Credential.Workers
	}

	return NewDerivationPool(params.Hasher, workers, params.Observer, params.Logger)
}

// NewDerivationPool wraps hasher with at most workers concurrent derivations.
// workers <= 0 means runtime.NumCPU(). observer and logger may be nil.
func NewDerivationPool(hasher service.PasswordHasher, workers int, observer Observer, logger *slog.Logger) *DerivationPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &DerivationPool{
		hasher:   hasher,
		slots:    semaphore.NewWeighted(int64(workers)),
		workers:  workers,
		observer: observer,
		logger:   logger,
	}
}

// Workers returns the concurrency limit.
func (p *DerivationPool) Workers() int {
	return p.workers
}

// Hash waits for a free slot, then creates a credential record.
func (p *DerivationPool) Hash(ctx context.Context, password string) (string, error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "wait for derivation slot")
	}
	defer p.slots.Release(1)

	start := time.Now()
	record, err := p.hasher.Hash(password)
	elapsed := time.Since(start)

	p.observer.ObserveHash(elapsed, err)
	p.logger.DebugContext(ctx, "Credential hash derived", slog.Duration("elapsed", elapsed), slog.Bool("ok", err == nil))

	return record, err
}

// Verify waits for a free slot, then checks password against record.
func (p *DerivationPool) Verify(ctx context.Context, password, record string) (bool, error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "wait for derivation slot")
	}
	defer p.slots.Release(1)

	start := time.Now()
	match, err := p.hasher.Verify(password, record)
	elapsed := time.Since(start)

	p.observer.ObserveVerify(elapsed, match, err)
	p.logger.DebugContext(ctx, "Credential verified", slog.Duration("elapsed", elapsed), slog.Bool("match", match))

	return match, err
}

// NeedsRehash only parses the record and does not take a slot.
func (p *DerivationPool) NeedsRehash(record string) (bool, error) {
	return p.hasher.NeedsRehash(record)
}

type hashResult struct {
	index  int
	record string
	err    error
}

// HashAll hashes every password and returns the records in input order.
// The first failure cancels the remaining work and is returned.
func (p *DerivationPool) HashAll(ctx context.Context, passwords []string) ([]string, error) {
	records := make([]string, len(passwords))
	if len(passwords) == 0 {
		return records, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerCount := min(p.workers, len(passwords))
	jobs := make(chan int)
	resultCh := make(chan hashResult, len(passwords))

	var workerGroup sync.WaitGroup
	for range workerCount {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			for idx := range jobs {
				record, err := p.Hash(ctx, passwords[idx])
				resultCh <- hashResult{index: idx, record: record, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range passwords {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		workerGroup.Wait()
		close(resultCh)
	}()

	var firstErr error
	for res := range resultCh {
		if res.err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(res.err, "hash password %d", res.index)
				cancel()
			}

			continue
		}
		records[res.index] = res.record
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "hash passwords")
	}

	return records, nil
}
