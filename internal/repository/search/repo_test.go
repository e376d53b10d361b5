package search

import (
	"context"
	"errors"
	"testing"

	"github.com/chative-cloud/ingredix/internal/db"
	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

func TestIndexName(t *testing.T) {
	if got := IndexName(target.InStock); got != "ingredix:instock:idx" {
		t.Errorf("instock index = %q", got)
	}
	if got := IndexName(target.Catalog); got != "ingredix:catalog:idx" {
		t.Errorf("catalog index = %q", got)
	}
}

func TestSearchKNN_BuildsQuery(t *testing.T) {
	repo, ms := newTestRepo(t)

	var captured *db.KNNQuery
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		captured = q
		return &db.SearchResult{}, nil
	}

	_, err := repo.SearchKNN(context.Background(), target.Catalog, testVector(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.IndexName != "ingredix:catalog:idx" {
		t.Errorf("index = %q", captured.IndexName)
	}
	if captured.K != 7 {
		t.Errorf("k = %d, want 7", captured.K)
	}
	if len(captured.Vector) != 4 {
		t.Errorf("vector len = %d, want 4", len(captured.Vector))
	}
	if len(captured.ReturnFields) == 0 {
		t.Error("return fields must be requested explicitly")
	}
}

func TestSearchKNN_HydratesMatches(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{
					Key:   "ingredix:instock:ING-1",
					Score: 0.93,
					Fields: map[string]string{
						"code":       "ING-1",
						"trade_name": "NiaPure 99",
						"inci_name":  "Niacinamide",
						"benefits":   "brightening|barrier repair",
					},
				},
				{
					Key:   "ingredix:instock:ING-2",
					Score: 0.81,
					Fields: map[string]string{
						"code":       "ING-2",
						"trade_name": "SqualPure",
					},
				},
			},
		}, nil
	}

	matches, err := repo.SearchKNN(context.Background(), target.InStock, testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	rec := matches[0].Record()
	if rec.Code() != "ING-1" || rec.TradeName() != "NiaPure 99" {
		t.Errorf("record = %q/%q", rec.Code(), rec.TradeName())
	}
	if len(rec.Benefits()) != 2 {
		t.Errorf("benefits = %v, want 2 entries", rec.Benefits())
	}
	if matches[0].Score() != 0.93 {
		t.Errorf("score = %g, want 0.93", matches[0].Score())
	}
	if matches[0].Source() != target.InStock {
		t.Errorf("source = %q, want instock", matches[0].Source())
	}
}

func TestSearchKNN_UnknownTarget(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.SearchKNN(context.Background(), target.Target("reviews"), testVector(), 5)
	if !errors.Is(err, domain.ErrUnknownTarget) {
		t.Errorf("error = %v, want ErrUnknownTarget", err)
	}
}

func TestSearchKNN_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("FT.SEARCH failed")
	}

	if _, err := repo.SearchKNN(context.Background(), target.InStock, testVector(), 5); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestSearchKNN_EmptyResult(t *testing.T) {
	repo, _ := newTestRepo(t)

	matches, err := repo.SearchKNN(context.Background(), target.InStock, testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %d, want 0", len(matches))
	}
}

func TestCount(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchCountFn = func(_ context.Context, index string) (int, error) {
		if index != "ingredix:catalog:idx" {
			t.Errorf("index = %q", index)
		}
		return 4500, nil
	}

	n, err := repo.Count(context.Background(), target.Catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4500 {
		t.Errorf("count = %d, want 4500", n)
	}
}

func TestCount_UnknownTarget(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Count(context.Background(), target.Target(""))
	if !errors.Is(err, domain.ErrUnknownTarget) {
		t.Errorf("error = %v, want ErrUnknownTarget", err)
	}
}
