package inventory

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"

	resultOK       = "ok"
	resultInvalid  = "invalid"
	resultNotFound = "not_found"
	resultError    = "error"
)

// InstrumentedStore counts store operations by outcome and tracks the number
// of products held.
type InstrumentedStore struct {
	next     Store
	ops      *prometheus.CounterVec
	products prometheus.Gauge
}

func NewInstrumentedStore(ctx context.Context, next Store, reg prometheus.Registerer) (*InstrumentedStore, error) {
	s := &InstrumentedStore{
		next: next,
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_store_operations_total",
				Help: "Store operations by kind and outcome",
			},
			[]string{"op", "result"},
		),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_products",
			Help: "Products currently held by the store",
		}),
	}

	current, err := next.List(ctx)
	if err != nil {
		return nil, err
	}
	s.products.Set(float64(len(current)))

	if err := reg.Register(s.ops); err != nil {
		return nil, err
	}
	if err := reg.Register(s.products); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *InstrumentedStore) List(ctx context.Context) ([]Product, error) {
	out, err := s.next.List(ctx)
	s.observe(opList, err)
	return out, err
}

func (s *InstrumentedStore) Create(ctx context.Context, name string, quantity int, price float64) (Product, error) {
	p, err := s.next.Create(ctx, name, quantity, price)
	s.observe(opCreate, err)
	if err == nil {
		s.products.Inc()
	}
	return p, err
}

func (s *InstrumentedStore) Update(ctx context.Context, id int, patch Patch) (Product, error) {
	p, err := s.next.Update(ctx, id, patch)
	s.observe(opUpdate, err)
	return p, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.next.Delete(ctx, id)
	switch {
	case err != nil:
		s.observe(opDelete, err)
	case !ok:
		s.ops.WithLabelValues(opDelete, resultNotFound).Inc()
	default:
		s.ops.WithLabelValues(opDelete, resultOK).Inc()
		s.products.Dec()
	}
	return ok, err
}

func (s *InstrumentedStore) observe(op string, err error) {
	s.ops.WithLabelValues(op, resultOf(err)).Inc()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrNotFound):
		return resultNotFound
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrIDRequired):
		return resultInvalid
	default:
		return resultError
	}
}
