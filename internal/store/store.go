package store

import (
	"context"
	"fmt"
	"time"

	"sharehope/internal/db"
	"sharehope/internal/utils"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

// now is swapped in tests. MySQL DATETIME(3) keeps milliseconds.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// table is the executor every repository is built on: one table, the
// columns declared on T's db tags, and the entity name used in errors.
type table[T any] struct {
	db      *db.DB
	name    string
	entity  string
	columns []string
}

func newTable[T any](d *db.DB, name, entity string) table[T] {
	var zero T
	return table[T]{
		db:      d,
		name:    name,
		entity:  entity,
		columns: utils.StructTagValues(zero),
	}
}

func (t table[T]) selectAll() sq.SelectBuilder {
	return t.db.Builder().Select(t.columns...).From(t.name)
}

// get returns (nil, nil) when nothing matched.
func (t table[T]) get(ctx context.Context, where sq.Sqlizer) (*T, error) {
	var item = new(T)
	found, err := t.db.Get(ctx, item, t.selectAll().Where(where).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", t.entity, err)
	}

	if !found {
		return nil, nil
	}

	return item, nil
}

func (t table[T]) byID(ctx context.Context, id int64) (*T, error) {
	return t.get(ctx, sq.Eq{"id": id})
}

// lockByID reads a row with FOR UPDATE. The lock only outlives the
// statement when ctx carries a transaction.
func (t table[T]) lockByID(ctx context.Context, id int64) (*T, error) {
	var item = new(T)
	query := t.selectAll().Where(sq.Eq{"id": id}).Suffix("FOR UPDATE")

	found, err := t.db.Get(ctx, item, query)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", t.entity, err)
	}

	if !found {
		return nil, nil
	}

	return item, nil
}

func (t table[T]) list(ctx context.Context, where sq.Sqlizer, orderBy ...string) ([]*T, error) {
	query := t.selectAll().Where(where).OrderBy(orderBy...)

	var items = make([]*T, 0)
	if err := t.db.Select(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to fetch %s list: %w", t.entity, err)
	}

	return items, nil
}

func (t table[T]) count(ctx context.Context, where sq.Sqlizer) (int64, error) {
	query := t.db.Builder().Select("COUNT(*)").From(t.name).Where(where)

	var total int64
	if err := t.db.Scalar(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.entity, err)
	}

	return total, nil
}

// page runs the count and the bounded select for one page. orderBy must end
// in a unique column so consecutive pages never overlap.
func (t table[T]) page(ctx context.Context, where sq.Sqlizer, req types.PageRequest, orderBy ...string) (*types.Page[T], error) {
	req = req.Normalize()

	total, err := t.count(ctx, where)
	if err != nil {
		return nil, err
	}

	query := t.selectAll().
		Where(where).
		OrderBy(orderBy...).
		Limit(uint64(req.Limit)).
		Offset(req.Offset())

	var items = make([]*T, 0, req.Limit)
	if err := t.db.Select(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to fetch %s page: %w", t.entity, err)
	}

	return types.NewPage(items, total, req), nil
}

// insert writes every mapped column except id and returns the new id.
func (t table[T]) insert(ctx context.Context, item *T) (int64, error) {
	query := t.db.Builder().
		Insert(t.name).
		SetMap(utils.StructToMap(item, "id"))

	id, err := t.db.Insert(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", t.entity, err)
	}

	return id, nil
}

// update rewrites every column except id and created_at.
func (t table[T]) update(ctx context.Context, id int64, item *T) error {
	return t.set(ctx, id, utils.StructToMap(item, "id", "created_at"))
}

func (t table[T]) set(ctx context.Context, id int64, values map[string]any) error {
	query := t.db.Builder().
		Update(t.name).
		SetMap(values).
		Where(sq.Eq{"id": id})

	n, err := t.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", t.entity, err)
	}

	if n == 0 {
		return types.NotFound(t.entity, id)
	}

	return nil
}

func (t table[T]) delete(ctx context.Context, id int64) error {
	query := t.db.Builder().
		Delete(t.name).
		Where(sq.Eq{"id": id})

	n, err := t.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.entity, err)
	}

	if n == 0 {
		return types.NotFound(t.entity, id)
	}

	return nil
}

// increment bumps column by one in a single statement so concurrent
// callers never lose an update.
func (t table[T]) increment(ctx context.Context, id int64, column string) error {
	query := t.db.Builder().
		Update(t.name).
		Set(column, sq.Expr(column+" + 1")).
		Where(sq.Eq{"id": id})

	n, err := t.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to increment %s.%s: %w", t.entity, column, err)
	}

	if n == 0 {
		return types.NotFound(t.entity, id)
	}

	return nil
}

func (t table[T]) exists(ctx context.Context, where sq.Sqlizer) (bool, error) {
	n, err := t.count(ctx, where)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// whereAll returns nil for an empty conjunction so no WHERE clause is emitted.
func whereAll(conds sq.And) sq.Sqlizer {
	if len(conds) == 0 {
		return nil
	}
	return conds
}

func dateRange(column string, r types.DateRange) sq.And {
	var conds sq.And
	if r.From != nil {
		conds = append(conds, sq.GtOrEq{column: *r.From})
	}
	if r.To != nil {
		conds = append(conds, sq.LtOrEq{column: *r.To})
	}
	return conds
}
