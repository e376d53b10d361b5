// Package answer turns search results into a grounded natural-language reply.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chative-cloud/ingredix/internal/domain/search/match"
	"github.com/chative-cloud/ingredix/internal/usecase/search"
)

const systemPrompt = `You are a cosmetics ingredient sourcing assistant.
Answer using only the ingredient records provided in the context block.
Each record states whether the material is in stock or catalog-only; when the
user asks what is available, lead with in-stock materials. If the context does
not contain the answer, say so instead of guessing. Reply in the language the
user wrote in.`

// Service composes search results into a chat answer.
type Service struct {
	searcher Searcher
	chat     ChatCompleter
	logger   *zap.Logger
}

// New creates an answer service.
func New(searcher Searcher, chat ChatCompleter, logger *zap.Logger) *Service {
	return &Service{searcher: searcher, chat: chat, logger: logger}
}

// Reply holds the generated answer plus the search evidence behind it.
type Reply struct {
	Answer  string
	Outcome search.Outcome
}

// Answer runs the search pipeline and asks the chat provider to reply.
func (s *Service) Answer(ctx context.Context, query string, opts search.Options) (Reply, error) {
	outcome, err := s.searcher.Search(ctx, query, opts)
	if err != nil {
		return Reply{}, err
	}

	prompt := buildPrompt(query, outcome.Results)
	text, err := s.chat.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return Reply{}, err
	}

	s.logger.Debug("answer generated",
		zap.Int("results", len(outcome.Results)),
		zap.Int("answer_length", len(text)),
	)

	return Reply{Answer: text, Outcome: outcome}, nil
}

func buildPrompt(query string, results []match.Merged) string {
	var b strings.Builder
	b.WriteString("Context:\n")

	if len(results) == 0 {
		b.WriteString("(no matching ingredients)\n")
	}
	for i := range results {
		b.WriteString(formatRecord(&results[i]))
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(query)
	return b.String()
}

func formatRecord(m *match.Merged) string {
	rec := m.Record()

	var b strings.Builder
	fmt.Fprintf(&b, "- %s", rec.TradeName())
	if rec.INCIName() != "" {
		fmt.Fprintf(&b, " (INCI: %s)", rec.INCIName())
	}
	fmt.Fprintf(&b, " [%s]", m.Availability())
	if rec.Supplier() != "" {
		fmt.Fprintf(&b, ", supplier: %s", rec.Supplier())
	}
	if len(rec.Benefits()) > 0 {
		fmt.Fprintf(&b, ", benefits: %s", strings.Join(rec.Benefits(), ", "))
	}
	if len(rec.UseCases()) > 0 {
		fmt.Fprintf(&b, ", use cases: %s", strings.Join(rec.UseCases(), ", "))
	}
	if rec.CostPerKg() > 0 {
		fmt.Fprintf(&b, ", cost/kg: %.2f", rec.CostPerKg())
	}
	b.WriteString("\n")
	return b.String()
}
