package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/core"
	"github.com/coursetta/coursetta/storage"
)

// Default ranking configuration. The weights and boost factor are tunable
// via options; these defaults match the values the corpus was tuned with.
const (
	DefaultSemanticWeight  = 0.7
	DefaultKeywordWeight   = 0.3
	DefaultCategoryBoost   = 1.15
	DefaultVerbatimBoost   = 0.3
	DefaultOverfetchFactor = 2
	DefaultMinSimilarity   = 0.0
	DefaultTimeout         = 5 * time.Second
)

// Ranking is the outcome of one retrieval call.
type Ranking struct {
	// Results is the ranked, deduplicated evidence list, at most topK long.
	// An empty list is a valid outcome, not an error.
	Results []*core.ScoredResult

	// Category is the category inferred from the question.
	Category core.Category

	// Degraded is true when semantic search failed and the ranking was
	// produced from keyword search alone.
	Degraded bool
}

// Retriever provides hybrid semantic and keyword retrieval over course documents.
//
// Each call is stateless and independent; a single Retriever may serve
// concurrent requests. Both dependencies are treated as read-only,
// thread-safe services.
type Retriever struct {
	documents storage.DocumentRepository
	embedder  ai.Embedder

	semanticWeight  float32
	keywordWeight   float32
	categoryBoost   float32
	verbatimBoost   float32
	overfetchFactor int
	minSimilarity   float32
	timeout         time.Duration
	keywordFallback bool

	logger *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithSemanticWeight sets the weight of the semantic score in fusion.
// Default is 0.7.
func WithSemanticWeight(w float32) Option {
	return func(r *Retriever) error {
		if w < 0 || w > 1 {
			return fmt.Errorf("semantic weight must be in [0,1], got %v", w)
		}
		r.semanticWeight = w
		return nil
	}
}

// WithKeywordWeight sets the weight of the keyword score in fusion.
// Default is 0.3.
func WithKeywordWeight(w float32) Option {
	return func(r *Retriever) error {
		if w < 0 || w > 1 {
			return fmt.Errorf("keyword weight must be in [0,1], got %v", w)
		}
		r.keywordWeight = w
		return nil
	}
}

// WithCategoryBoost sets the multiplicative boost applied when a document's
// category matches the question's inferred category.
// Default is 1.15. Must be greater than 1.
func WithCategoryBoost(boost float32) Option {
	return func(r *Retriever) error {
		if boost <= 1 {
			return fmt.Errorf("category boost must be greater than 1, got %v", boost)
		}
		r.categoryBoost = boost
		return nil
	}
}

// WithVerbatimBoost sets the additive boost applied when a document's text
// contains every significant word of the question. Zero disables it.
// Default is 0.3.
func WithVerbatimBoost(boost float32) Option {
	return func(r *Retriever) error {
		if boost < 0 {
			return fmt.Errorf("verbatim boost must be non-negative, got %v", boost)
		}
		r.verbatimBoost = boost
		return nil
	}
}

// WithOverfetchFactor sets how many candidates each underlying search
// fetches relative to topK, so fusion has enough overlap to work with.
// Default is 2.
func WithOverfetchFactor(factor int) Option {
	return func(r *Retriever) error {
		if factor < 1 {
			return fmt.Errorf("overfetch factor must be at least 1, got %d", factor)
		}
		r.overfetchFactor = factor
		return nil
	}
}

// WithMinSimilarity sets the similarity floor for semantic candidates.
// Default is 0 (no floor).
func WithMinSimilarity(min float32) Option {
	return func(r *Retriever) error {
		if min < 0 || min > 1 {
			return fmt.Errorf("min similarity must be in [0,1], got %v", min)
		}
		r.minSimilarity = min
		return nil
	}
}

// WithTimeout sets the per-dependency deadline. A dependency call exceeding
// it fails the retrieval with ErrTimeout.
// Default is 5 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Retriever) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		r.timeout = timeout
		return nil
	}
}

// WithKeywordFallback enables degraded keyword-only ranking when the
// semantic side fails. Disabled by default; without it a semantic failure
// fails the whole call.
func WithKeywordFallback(enabled bool) Option {
	return func(r *Retriever) error {
		r.keywordFallback = enabled
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever over the given repository and embedder.
func NewRetriever(
	documents storage.DocumentRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Retriever, error) {
	if documents == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		documents:       documents,
		embedder:        embedder,
		semanticWeight:  DefaultSemanticWeight,
		keywordWeight:   DefaultKeywordWeight,
		categoryBoost:   DefaultCategoryBoost,
		verbatimBoost:   DefaultVerbatimBoost,
		overfetchFactor: DefaultOverfetchFactor,
		minSimilarity:   DefaultMinSimilarity,
		timeout:         DefaultTimeout,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve produces a ranked, deduplicated evidence list for the question.
// Returns at most topK results, ordered by fused score descending.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) (*Ranking, error) {
	return r.RetrieveWithMonitor(ctx, question, topK, nil)
}

// RetrieveWithMonitor is Retrieve with monitoring. The monitor receives
// callbacks at each stage of the retrieval process.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, question string, topK int, monitor RetrieveMonitor) (*Ranking, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if topK < 1 {
		return nil, ErrInvalidTopK
	}

	category := core.Categorize(question)
	monitor.Start(question, category)

	overfetch := topK * r.overfetchFactor

	// 1. Semantic search: embed the question, then query by vector.
	semantic, semErr := r.semanticCandidates(ctx, question, overfetch)
	if semErr != nil {
		if !r.keywordFallback {
			return nil, semErr
		}
		r.logger.Warn("semantic search failed, degrading to keyword-only",
			"question", question, "err", semErr)
		monitor.Degraded(semErr)
		return r.keywordOnly(ctx, question, category, topK, overfetch, monitor)
	}
	monitor.AfterSemanticSearch(semantic)

	// 2. Keyword search over the raw question text.
	keyword, err := r.keywordCandidates(ctx, question, overfetch)
	if err != nil {
		return nil, err
	}
	monitor.AfterKeywordSearch(keyword)

	// 3. Fuse, boost, rank.
	results := r.fuse(semantic, keyword, question, category, monitor)
	sortResults(results)
	if len(results) > topK {
		results = results[:topK]
	}
	monitor.Finish(results)

	return &Ranking{Results: results, Category: category}, nil
}

// semanticCandidates embeds the question and queries the store by vector.
// Both steps share one deadline.
func (r *Retriever) semanticCandidates(ctx context.Context, question string, limit int) ([]*core.ScoredResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vector, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, r.classify(err, ErrEmbedding)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: embedder returned empty vector", ErrEmbedding)
	}

	matches, err := r.documents.FindSimilar(ctx, vector, r.minSimilarity, limit)
	if err != nil {
		return nil, r.classify(err, ErrStoreUnavailable)
	}
	return matches, nil
}

func (r *Retriever) keywordCandidates(ctx context.Context, question string, limit int) ([]*core.ScoredResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	matches, err := r.documents.SearchKeyword(ctx, question, limit)
	if err != nil {
		return nil, r.classify(err, ErrStoreUnavailable)
	}
	return matches, nil
}

// keywordOnly is the degradation path: ranking from keyword scores alone,
// with the fused score set to the keyword score before boosting.
func (r *Retriever) keywordOnly(ctx context.Context, question string, category core.Category, topK, overfetch int, monitor RetrieveMonitor) (*Ranking, error) {
	keyword, err := r.keywordCandidates(ctx, question, overfetch)
	if err != nil {
		return nil, err
	}
	monitor.AfterKeywordSearch(keyword)

	results := make([]*core.ScoredResult, 0, len(keyword))
	for _, candidate := range keyword {
		result := &core.ScoredResult{
			Document:     candidate.Document,
			KeywordScore: candidate.KeywordScore,
			FusedScore:   candidate.KeywordScore,
		}
		r.boostVerbatim(result, question)
		r.boost(result, category, monitor)
		results = append(results, result)
	}
	sortResults(results)
	if len(results) > topK {
		results = results[:topK]
	}
	monitor.Finish(results)

	return &Ranking{Results: results, Category: category, Degraded: true}, nil
}

// fuse unions the two candidate sets by document ID and combines their
// scores via a weighted sum. A score missing from one side contributes 0.
func (r *Retriever) fuse(semantic, keyword []*core.ScoredResult, question string, category core.Category, monitor RetrieveMonitor) []*core.ScoredResult {
	merged := make(map[core.ID]*core.ScoredResult, len(semantic)+len(keyword))

	for _, candidate := range semantic {
		merged[candidate.Document.Id] = &core.ScoredResult{
			Document:      candidate.Document,
			SemanticScore: candidate.SemanticScore,
		}
	}
	for _, candidate := range keyword {
		if existing, ok := merged[candidate.Document.Id]; ok {
			existing.KeywordScore = candidate.KeywordScore
			continue
		}
		merged[candidate.Document.Id] = &core.ScoredResult{
			Document:     candidate.Document,
			KeywordScore: candidate.KeywordScore,
		}
	}

	results := make([]*core.ScoredResult, 0, len(merged))
	for _, result := range merged {
		result.FusedScore = r.semanticWeight*result.SemanticScore + r.keywordWeight*result.KeywordScore
		monitor.Fused(result)
		r.boostVerbatim(result, question)
		r.boost(result, category, monitor)
		results = append(results, result)
	}
	return results
}

// boostVerbatim rewards documents that contain every significant word of
// the question verbatim. Applied before the category boost so a category
// match scales the confirmed score too.
func (r *Retriever) boostVerbatim(result *core.ScoredResult, question string) {
	if r.verbatimBoost == 0 {
		return
	}
	if !core.ContainsAllWords(result.Document.Text, question) {
		return
	}
	result.FusedScore += r.verbatimBoost
}

// boost applies the multiplicative category boost. General and unknown
// never boost: matching on them carries no topical signal.
func (r *Retriever) boost(result *core.ScoredResult, category core.Category, monitor RetrieveMonitor) {
	if category == core.CategoryGeneral || category == core.CategoryUnknown {
		return
	}
	if result.Document.Category != category {
		return
	}
	result.FusedScore *= r.categoryBoost
	monitor.Boosted(result)
}

// sortResults orders by fused score descending, ties broken by semantic
// score descending, then by ID ascending for determinism.
func sortResults(results []*core.ScoredResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].FusedScore != results[j].FusedScore {
			return results[i].FusedScore > results[j].FusedScore
		}
		if results[i].SemanticScore != results[j].SemanticScore {
			return results[i].SemanticScore > results[j].SemanticScore
		}
		return results[i].Document.Id < results[j].Document.Id
	})
}

// classify maps a dependency error to the retrieval taxonomy. Deadline
// overruns surface as ErrTimeout regardless of which dependency hit them.
func (r *Retriever) classify(err error, sentinel error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
