package ingest

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/ingredient"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// --- Mocks ---

type mockRepo struct {
	upsertCreated bool
	upsertErr     error
	deleteErr     error
	ensureErr     error

	lastTarget target.Target
	lastVector []float32
	lastCode   string
}

func (m *mockRepo) EnsureIndexes(_ context.Context) error { return m.ensureErr }

func (m *mockRepo) Upsert(
	_ context.Context, t target.Target, rec *ingredient.Ingredient, vector []float32,
) (bool, error) {
	m.lastTarget = t
	m.lastVector = vector
	m.lastCode = rec.Code()
	return m.upsertCreated, m.upsertErr
}

func (m *mockRepo) Delete(_ context.Context, t target.Target, code string) error {
	m.lastTarget = t
	m.lastCode = code
	return m.deleteErr
}

type mockEmbedder struct {
	err      error
	lastText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.5, 0.6}}, nil
}

func testRecord(t *testing.T) ingredient.Ingredient {
	t.Helper()
	rec, err := ingredient.New("ING-1", "NiaPure 99", "Niacinamide", "",
		[]string{"brightening"}, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

// --- Tests ---

func TestUpsert_EmbedsRecordText(t *testing.T) {
	repo := &mockRepo{upsertCreated: true}
	emb := &mockEmbedder{}
	svc := New(repo, emb, zap.NewNop())

	rec := testRecord(t)
	created, err := svc.Upsert(context.Background(), target.InStock, &rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !created {
		t.Error("expected created=true")
	}
	if emb.lastText != rec.EmbeddingText() {
		t.Errorf("embedded %q, want the record's embedding text", emb.lastText)
	}
	if len(repo.lastVector) != 2 {
		t.Errorf("vector len = %d, want 2", len(repo.lastVector))
	}
	if repo.lastTarget != target.InStock {
		t.Errorf("target = %q", repo.lastTarget)
	}
}

func TestUpsert_EmbeddingFailure(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{err: errors.New("provider down")}, zap.NewNop())

	rec := testRecord(t)
	if _, err := svc.Upsert(context.Background(), target.Catalog, &rec); err == nil {
		t.Fatal("expected embedding error to propagate")
	}
}

func TestUpsert_RepoFailure(t *testing.T) {
	repo := &mockRepo{upsertErr: errors.New("write failed")}
	svc := New(repo, &mockEmbedder{}, zap.NewNop())

	rec := testRecord(t)
	if _, err := svc.Upsert(context.Background(), target.Catalog, &rec); err == nil {
		t.Fatal("expected repo error to propagate")
	}
}

func TestDelete(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{}, zap.NewNop())

	if err := svc.Delete(context.Background(), target.Catalog, "ING-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCode != "ING-9" || repo.lastTarget != target.Catalog {
		t.Errorf("delete forwarded %q/%q", repo.lastTarget, repo.lastCode)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockRepo{deleteErr: domain.ErrIngredientNotFound}
	svc := New(repo, &mockEmbedder{}, zap.NewNop())

	err := svc.Delete(context.Background(), target.InStock, "NOPE")
	if !errors.Is(err, domain.ErrIngredientNotFound) {
		t.Errorf("error = %v, want ErrIngredientNotFound", err)
	}
}

func TestEnsureIndexes_Delegates(t *testing.T) {
	repo := &mockRepo{ensureErr: errors.New("index create failed")}
	svc := New(repo, &mockEmbedder{}, zap.NewNop())

	if err := svc.EnsureIndexes(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}
