package search

import (
	"errors"
	"testing"

	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/ingredient"
	"github.com/chative-cloud/ingredix/internal/domain/search/match"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

func stockMatch(code string, score float64) match.Match {
	rec := ingredient.Reconstruct(code, "Trade "+code, "", "", nil, nil, 0)
	return match.New(rec, score, target.InStock)
}

func catalogMatch(code string, score float64) match.Match {
	rec := ingredient.Reconstruct(code, "Trade "+code, "", "", nil, nil, 0)
	return match.New(rec, score, target.Catalog)
}

func codes(results []match.Merged) []string {
	out := make([]string, len(results))
	for i := range results {
		rec := results[i].Record()
		out[i] = rec.Code()
	}
	return out
}

func TestMerge_DedupInStockWins(t *testing.T) {
	inStock := []match.Match{stockMatch("ING-1", 0.70)}
	catalog := []match.Match{catalogMatch("ING-1", 0.95)}

	merged, err := Merge(inStock, catalog, target.DualPriority, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("len = %d, want 1", len(merged))
	}
	got := merged[0]
	if got.Availability() != match.InStock {
		t.Errorf("availability = %q, want in_stock", got.Availability())
	}
	if !got.Prioritized() {
		t.Error("dedup winner must be marked prioritized")
	}
	if got.Score() != 0.70 {
		t.Errorf("score = %g, want the in-stock copy's 0.70", got.Score())
	}
}

func TestMerge_PreferInStockOrder(t *testing.T) {
	inStock := []match.Match{stockMatch("S1", 0.60), stockMatch("S2", 0.50)}
	catalog := []match.Match{catalogMatch("C1", 0.99), catalogMatch("C2", 0.90)}

	merged, err := Merge(inStock, catalog, target.DualPriority, PolicyPreferInStock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"S1", "S2", "C1", "C2"}
	got := codes(merged)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMerge_ScoreOrderPolicy(t *testing.T) {
	inStock := []match.Match{stockMatch("S1", 0.60)}
	catalog := []match.Match{catalogMatch("C1", 0.99), catalogMatch("C2", 0.40)}

	merged, err := Merge(inStock, catalog, target.DualPriority, PolicyScoreOrder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"C1", "S1", "C2"}
	got := codes(merged)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMerge_CodelessRecordsNeverDedup(t *testing.T) {
	inStock := []match.Match{stockMatch("", 0.80)}
	catalog := []match.Match{catalogMatch("", 0.80)}

	merged, err := Merge(inStock, catalog, target.DualPriority, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merged) != 2 {
		t.Fatalf("len = %d, codeless records must both survive", len(merged))
	}
	for i := range merged {
		if merged[i].Prioritized() {
			t.Error("codeless record must not be marked prioritized")
		}
	}
}

func TestMerge_AvailabilityLabels(t *testing.T) {
	merged, err := Merge(
		[]match.Match{stockMatch("S1", 0.9)},
		[]match.Match{catalogMatch("C1", 0.8)},
		target.DualPriority, "",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if merged[0].Availability() != match.InStock {
		t.Errorf("in-stock hit labelled %q", merged[0].Availability())
	}
	if merged[1].Availability() != match.CatalogOnly {
		t.Errorf("catalog hit labelled %q", merged[1].Availability())
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	merged, err := Merge(nil, nil, target.DualPriority, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged) != 0 {
		t.Errorf("len = %d, want 0", len(merged))
	}
}

func TestMerge_UnknownPolicy(t *testing.T) {
	_, err := Merge(nil, nil, target.DualPriority, Policy("best_effort"))
	if err == nil {
		t.Fatal("expected error for unknown policy")
	}
	if !errors.Is(err, domain.ErrUnknownPolicy) {
		t.Errorf("error = %v, want ErrUnknownPolicy", err)
	}
}

func TestMerge_DuplicateWithinStockList(t *testing.T) {
	inStock := []match.Match{stockMatch("S1", 0.9), stockMatch("S1", 0.7)}

	merged, err := Merge(inStock, nil, target.SingleCollection, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same-list duplicates are kept; only cross-collection copies dedup.
	if len(merged) != 2 {
		t.Errorf("len = %d, want 2", len(merged))
	}
}
