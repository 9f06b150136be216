package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// kvRepo implements KVRepo with JSON encoded values.
type kvRepo struct {
	drv *entsql.Driver
}

func (r *kvRepo) Get(ctx context.Context, key string, v any) error {
	d := dialectBuilder()
	sel := d.Select("value").From(d.Table(tableKV)).
		Where(entsql.EQ("key", key)).
		Limit(1)

	var raw string
	found := false
	err := query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&raw)
	})
	if err != nil {
		return fmt.Errorf("get %q: %w", key, err)
	}
	if !found {
		return ErrNotFound
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	ins := dialectBuilder().Insert(tableKV).
		Columns("key", "value", "updated_at").
		Values(key, string(raw), nowMillis()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := exec(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	del := dialectBuilder().Delete(tableKV).Where(entsql.EQ("key", key))
	if _, err := exec(ctx, r.drv, del); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
