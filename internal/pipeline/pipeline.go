// Package pipeline runs one synchronous analysis round: plan, gather
// context, reason, extract, log.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"warroom/internal/dataflows"
	"warroom/internal/memory"
	"warroom/internal/models"
	"warroom/internal/prompt"
	"warroom/internal/protocol"
	"warroom/internal/verdict"
)

// Reasoner is the single text-in/text-out reasoning call.
type Reasoner interface {
	Generate(ctx context.Context, fullPrompt string) (string, error)
}

// QuoteSource serves one market snapshot per symbol.
type QuoteSource interface {
	Snapshot(ctx context.Context, symbol string) (*models.QuoteSnapshot, error)
}

// ArticleSource resolves a pasted link into readable text.
type ArticleSource interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Outcome is everything one run produced. The write result is
// informational: a failed log write never disturbs the verdict.
type Outcome struct {
	Request     models.AnalysisRequest
	FullPrompt  string
	RawResponse string
	Verdict     *verdict.Verdict
	WriteResult memory.WriteResult
}

type Pipeline struct {
	engine   Reasoner
	quotes   QuoteSource
	store    memory.Store
	writer   *memory.Writer
	articles ArticleSource
	persona  string
}

// New wires one pipeline. quotes and articles may be nil; the matching
// stages then degrade to their placeholders.
func New(engine Reasoner, quotes QuoteSource, store memory.Store, articles ArticleSource) (*Pipeline, error) {
	persona, err := prompt.Load("persona")
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		engine:   engine,
		quotes:   quotes,
		store:    store,
		writer:   memory.NewWriter(store),
		articles: articles,
		persona:  persona,
	}, nil
}

// Run executes one full round. Only a reasoning-engine failure is
// terminal; every other absence or upstream hiccup degrades to a
// documented default and the round proceeds.
func (p *Pipeline) Run(ctx context.Context, proto protocol.Protocol, fields map[string]string) (*Outcome, error) {
	fields = p.resolveIntelLink(ctx, proto, fields)

	keyword, instruction, err := proto.Plan(fields)
	if err != nil {
		return nil, err
	}
	ticker := proto.Ticker(fields)

	// Quote fetch and memory search are independent; run them together.
	var (
		snapshot *models.QuoteSnapshot
		excerpt  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := p.searchMemory(gctx, keyword)
		if err != nil {
			log.Printf("memory search failed, proceeding without history: %v", err)
			return nil
		}
		excerpt = prompt.FormatMemory(records)
		return nil
	})
	if p.quotes != nil && proto.UsesQuote() && ticker != "" {
		g.Go(func() error {
			snap, err := p.quotes.Snapshot(gctx, ticker)
			if err != nil {
				log.Printf("quote unavailable for %s: %v", ticker, err)
				return nil
			}
			snapshot = snap
			return nil
		})
	}
	_ = g.Wait()

	request := models.AnalysisRequest{
		Protocol:      string(proto),
		Ticker:        ticker,
		Fields:        fields,
		SearchKeyword: keyword,
		Instruction:   instruction,
		Snapshot:      snapshot,
		MemoryExcerpt: excerpt,
	}

	fullPrompt := prompt.Assemble(p.persona, snapshot, excerpt, instruction)

	raw, err := p.engine.Generate(ctx, fullPrompt)
	if err != nil {
		return nil, fmt.Errorf("reasoning round failed: %w", err)
	}

	v := verdict.Extract(raw)

	writeResult := p.writer.Write(ctx, v, memory.WriteMeta{Ticker: ticker})

	return &Outcome{
		Request:     request,
		FullPrompt:  fullPrompt,
		RawResponse: raw,
		Verdict:     v,
		WriteResult: writeResult,
	}, nil
}

// resolveIntelLink swaps a pasted URL for the article text behind it.
// Fetch failure passes the URL through verbatim.
func (p *Pipeline) resolveIntelLink(ctx context.Context, proto protocol.Protocol, fields map[string]string) map[string]string {
	if proto != protocol.Intel || p.articles == nil {
		return fields
	}
	content := fields[protocol.FieldContent]
	if !dataflows.IsURL(content) {
		return fields
	}

	text, err := p.articles.Fetch(ctx, content)
	if err != nil {
		log.Printf("article fetch failed, passing link through: %v", err)
		return fields
	}

	resolved := make(map[string]string, len(fields))
	for k, v := range fields {
		resolved[k] = v
	}
	resolved[protocol.FieldContent] = text
	return resolved
}

func (p *Pipeline) searchMemory(ctx context.Context, keyword string) ([]models.LogRecord, error) {
	if p.store == nil {
		return nil, nil
	}
	return p.store.Search(ctx, keyword)
}

// History exposes the raw log search for the console's history view.
func (p *Pipeline) History(ctx context.Context, query string) ([]models.LogRecord, error) {
	if p.store == nil {
		return nil, fmt.Errorf("memory store not configured")
	}
	return p.store.Search(ctx, query)
}
