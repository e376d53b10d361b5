// Package ingredient owns the hash layout and FT index definitions for
// ingredient records, keyed ingredix:<collection>:<code>.
package ingredient

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/chative-cloud/ingredix/internal/db"
	"github.com/chative-cloud/ingredix/internal/domain"
	domingredient "github.com/chative-cloud/ingredix/internal/domain/ingredient"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// store is the consumer interface for record persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig carries index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo persists ingredient records and manages the per-collection indexes.
type Repo struct {
	store store
	dim   int
	hnsw  HNSWConfig
}

// New creates an ingredient repository for the given vector dimension.
func New(s store, dim int) *Repo {
	return &Repo{store: s, dim: dim}
}

// WithHNSW sets HNSW index build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// Key returns the storage key for a record in a collection.
func Key(t target.Target, code string) string {
	return fmt.Sprintf("%s%s:%s", domain.KeyPrefix, t, code)
}

// keyPrefix returns the key prefix covered by a collection's index.
func keyPrefix(t target.Target) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, t)
}

// EnsureIndexes creates the FT index for every collection that lacks one.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	for _, t := range target.All() {
		name := fmt.Sprintf("%s%s:idx", domain.KeyPrefix, t)

		exists, err := r.store.IndexExists(ctx, name)
		if err != nil {
			return fmt.Errorf("probe index %s: %w", name, err)
		}
		if exists {
			continue
		}

		def := db.NewIndex(name).
			Prefix(keyPrefix(t)).
			Tag(fieldCode).
			Text(fieldTradeName).
			Text(fieldINCIName).
			Numeric(fieldCostPerKg).
			VectorHNSW(fieldVector, r.dim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct).
			MustBuild()

		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}

// Upsert writes a record and its embedding into a collection.
// Returns true when the record did not exist before.
func (r *Repo) Upsert(
	ctx context.Context, t target.Target, rec *domingredient.Ingredient, vector []float32,
) (bool, error) {
	key := Key(t, rec.Code())

	existed, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, ToFields(rec, vector)); err != nil {
		return false, fmt.Errorf("write %s: %w", key, err)
	}
	return !existed, nil
}

// Get reads a single record by code.
func (r *Repo) Get(ctx context.Context, t target.Target, code string) (domingredient.Ingredient, error) {
	fields, err := r.store.HGetAll(ctx, Key(t, code))
	if err != nil {
		return domingredient.Ingredient{}, fmt.Errorf("read %s: %w", code, err)
	}
	if len(fields) == 0 {
		return domingredient.Ingredient{}, domain.ErrIngredientNotFound
	}
	return FromFields(fields), nil
}

// Delete removes a record from a collection.
func (r *Repo) Delete(ctx context.Context, t target.Target, code string) error {
	key := Key(t, code)
	existed, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check %s: %w", key, err)
	}
	if !existed {
		return domain.ErrIngredientNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
