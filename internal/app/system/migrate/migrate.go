// Package migrate copies seed records the document store lacks into it.
//
// Each kind runs independently: the ids already in the store are read,
// missing = seed - existing is computed, and each missing record is
// inserted on its own. Existing records are never touched. An insert that
// loses a race to a concurrent writer (duplicate id) counts as already
// present. The first other write error aborts that kind; records written
// before it stay. Other kinds still run and their errors are aggregated.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds concurrent inserts within one kind.
const DefaultConcurrency = 4

// Collection is the slice of a per-collection store migration needs.
type Collection[T any] interface {
	IDs(ctx context.Context) (map[string]struct{}, error)
	Create(ctx context.Context, v T) (T, error)
}

type kindRunner func(ctx context.Context) (int, error)

// Migrator holds one runner per registered kind.
type Migrator struct {
	log         *zap.Logger
	concurrency int

	mu      sync.Mutex
	order   []dataservice.Kind
	runners map[dataservice.Kind]kindRunner
}

// New returns an empty Migrator. A non-positive concurrency uses
// DefaultConcurrency.
func New(log *zap.Logger, concurrency int) *Migrator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Migrator{log: log, concurrency: concurrency, runners: map[dataservice.Kind]kindRunner{}}
}

// Register adds kind with its seed records and target collection.
func Register[T any](m *Migrator, kind dataservice.Kind, records []T, id func(T) string, coll Collection[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runners[kind]; !ok {
		m.order = append(m.order, kind)
	}
	m.runners[kind] = func(ctx context.Context) (int, error) {
		return migrateKind(ctx, m.log, m.concurrency, kind, records, id, coll)
	}
}

// Run migrates every registered kind and returns the per-kind counts. The
// report includes kinds that failed, with whatever they wrote first.
func (m *Migrator) Run(ctx context.Context) (dataservice.MigrationReport, error) {
	m.mu.Lock()
	order := append([]dataservice.Kind(nil), m.order...)
	m.mu.Unlock()

	report := dataservice.MigrationReport{}
	var errs error
	for _, k := range order {
		n, err := m.RunKind(ctx, k)
		report[k] = n
		errs = multierr.Append(errs, err)
	}
	m.log.Info("migration finished",
		zap.Int("written", report.Total()),
		zap.Bool("ok", errs == nil))
	return report, errs
}

// RunKind migrates one kind.
func (m *Migrator) RunKind(ctx context.Context, kind dataservice.Kind) (int, error) {
	m.mu.Lock()
	run, ok := m.runners[kind]
	m.mu.Unlock()
	if !ok {
		return 0, apperr.Validation("unknown collection %q", kind)
	}
	return run(ctx)
}

func migrateKind[T any](ctx context.Context, log *zap.Logger, limit int, kind dataservice.Kind, records []T, id func(T) string, coll Collection[T]) (int, error) {
	existing, err := coll.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate %s: %w", kind, err)
	}

	var missing []T
	for _, r := range records {
		if _, ok := existing[id(r)]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		log.Debug("migration: nothing to write", zap.String("kind", string(kind)))
		return 0, nil
	}

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, r := range missing {
		g.Go(func() error {
			if _, err := coll.Create(gctx, r); err != nil {
				if errors.Is(err, apperr.ErrDuplicate) {
					return nil
				}
				return fmt.Errorf("%s %q: %w", kind, id(r), err)
			}
			written.Add(1)
			return nil
		})
	}
	err = g.Wait()
	n := int(written.Load())

	if err != nil {
		log.Warn("migration aborted",
			zap.String("kind", string(kind)),
			zap.Int("written", n),
			zap.Error(err))
		return n, fmt.Errorf("migrate %s: %w", kind, err)
	}
	log.Info("migration wrote records",
		zap.String("kind", string(kind)),
		zap.Int("written", n),
		zap.Int("already_present", len(records)-len(missing)))
	return n, nil
}
