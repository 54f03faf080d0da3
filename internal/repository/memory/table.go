package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"notebook-tree-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var ErrUnsupportedSpecification = errors.New("specification is not supported by the memory store")

type record[T any] struct {
	seq   int64
	value T
}

// table keeps private copies of one record kind in a go-cache instance
// with expiration disabled. Insertion order is tracked with a sequence so
// unordered queries stay deterministic. A rollback swaps in a whole new
// instance, so readers see either the old rows or the restored ones.
type table[T any] struct {
	items atomic.Pointer[cache.Cache]
	seq   *atomic.Int64
	clone func(T) T
	field func(T, string) (interface{}, bool)
}

func newTable[T any](seq *atomic.Int64, clone func(T) T, field func(T, string) (interface{}, bool)) *table[T] {
	t := &table[T]{
		seq:   seq,
		clone: clone,
		field: field,
	}
	t.items.Store(cache.New(cache.NoExpiration, 0))
	return t
}

func (t *table[T]) put(id uuid.UUID, value T) {
	key := id.String()
	seq := t.seq.Add(1)
	if existing, ok := t.items.Load().Get(key); ok {
		seq = existing.(record[T]).seq
	}
	t.items.Load().Set(key, record[T]{seq: seq, value: t.clone(value)}, cache.NoExpiration)
}

func (t *table[T]) get(id uuid.UUID) (T, bool) {
	raw, ok := t.items.Load().Get(id.String())
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(raw.(record[T]).value), true
}

func (t *table[T]) has(id uuid.UUID) bool {
	_, ok := t.items.Load().Get(id.String())
	return ok
}

func (t *table[T]) remove(id uuid.UUID) {
	t.items.Load().Delete(id.String())
}

func (t *table[T]) snapshot() map[string]cache.Item {
	return t.items.Load().Items()
}

func (t *table[T]) restore(items map[string]cache.Item) {
	t.items.Store(cache.NewFrom(cache.NoExpiration, 0, items))
}

// query evaluates specs the way the SQL store would: filters and ordering
// in the given order, pagination last.
func (t *table[T]) query(specs ...specification.Specification) ([]T, error) {
	items := t.items.Load().Items()
	rows := make([]record[T], 0, len(items))
	for _, item := range items {
		rows = append(rows, item.Object.(record[T]))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	values := make([]T, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.value)
	}

	var page *specification.Pagination
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.Matcher:
			filtered := values[:0:0]
			for _, v := range values {
				if s.Matches(v) {
					filtered = append(filtered, v)
				}
			}
			values = filtered
		case specification.OrderBy:
			if err := t.sortBy(values, s); err != nil {
				return nil, err
			}
		case specification.Pagination:
			p := s
			page = &p
		case specification.ForUpdate:
			// writers are serialised by the store lock
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedSpecification, spec)
		}
	}

	if page != nil {
		values = paginate(values, *page)
	}

	result := make([]T, len(values))
	for i, v := range values {
		result[i] = t.clone(v)
	}
	return result, nil
}

func (t *table[T]) sortBy(values []T, order specification.OrderBy) error {
	field := strings.ToLower(strings.TrimSpace(order.Field))
	var sortErr error
	sort.SliceStable(values, func(i, j int) bool {
		a, okA := t.field(values[i], field)
		b, okB := t.field(values[j], field)
		if !okA || !okB {
			sortErr = fmt.Errorf("%w: order by %q", ErrUnsupportedSpecification, order.Field)
			return false
		}
		cmp := compareValues(a, b)
		if order.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
	if len(values) == 1 {
		if _, ok := t.field(values[0], field); !ok {
			sortErr = fmt.Errorf("%w: order by %q", ErrUnsupportedSpecification, order.Field)
		}
	}
	return sortErr
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	case string:
		return strings.Compare(av, b.(string))
	}
	return 0
}

func paginate[T any](values []T, page specification.Pagination) []T {
	start := page.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(values) {
		return values[:0]
	}
	end := len(values)
	if page.Limit > 0 && start+page.Limit < end {
		end = start + page.Limit
	}
	return values[start:end]
}
