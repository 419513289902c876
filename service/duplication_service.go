package service

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/refactorlab/dupfind/domain"
	"github.com/refactorlab/dupfind/internal/analyzer"
	"github.com/sourcegraph/conc/pool"
)

// extractionWorkerMultiplier scales NumCPU for the per-file extraction pool.
// Extraction mixes file I/O with regex work, so 2x keeps the cores busy.
const extractionWorkerMultiplier = 2

// maxFragmentSize bounds the input accepted by ComputeSimilarity.
const maxFragmentSize = 1024 * 1024

// DuplicationServiceImpl implements the domain.DuplicationService interface
type DuplicationServiceImpl struct {
	progress domain.ProgressManager
}

// NewDuplicationService creates a new duplication service
// progress can be nil - the service can work without progress reporting
func NewDuplicationService(progress domain.ProgressManager) *DuplicationServiceImpl {
	return &DuplicationServiceImpl{
		progress: progress,
	}
}

// Detect performs duplicate detection on the given request
func (s *DuplicationServiceImpl) Detect(ctx context.Context, req *domain.DetectRequest) (*domain.DetectResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("detect request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detect request: %w", err)
	}

	// req.Paths contains actual source files collected by the usecase layer
	return s.DetectInFiles(ctx, req.Paths, req)
}

// DetectInFiles performs duplicate detection on specific files
func (s *DuplicationServiceImpl) DetectInFiles(ctx context.Context, filePaths []string, req *domain.DetectRequest) (*domain.DetectResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("detect request cannot be nil")
	}
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("file paths cannot be empty")
	}

	startTime := time.Now()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	detector := analyzer.NewDetector(s.createOptions(req))

	if s.progress != nil {
		s.progress.Initialize(len(filePaths))
	}

	type fileResult struct {
		blocks []*analyzer.CodeBlock
		lines  int
	}

	// Extract blocks per file in parallel. Results are kept at the file's
	// original index so downstream grouping is deterministic.
	results := make([]fileResult, len(filePaths))
	var progressMu sync.Mutex
	processed := 0

	p := pool.New().WithMaxGoroutines(runtime.NumCPU() * extractionWorkerMultiplier)
	for i, filePath := range filePaths {
		p.Go(func() {
			defer func() {
				if s.progress != nil {
					progressMu.Lock()
					processed++
					s.progress.Update(processed, len(filePaths))
					progressMu.Unlock()
				}
			}()

			if ctx.Err() != nil {
				return
			}

			content, err := os.ReadFile(filePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to read file %s: %v\n", filePath, err)
				return // Skip files that cannot be read
			}

			text := string(content)
			results[i] = fileResult{
				blocks: detector.ExtractBlocks(filePath, text),
				lines:  len(strings.Split(text, "\n")),
			}
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("duplicate detection cancelled: %w", err)
	}

	var allBlocks []*analyzer.CodeBlock
	linesAnalyzed := 0
	for _, r := range results {
		allBlocks = append(allBlocks, r.blocks...)
		linesAnalyzed += r.lines
	}

	if len(allBlocks) == 0 {
		if s.progress != nil {
			s.progress.Complete(true)
		}
		resp := domain.EmptyDetectResponse(len(filePaths))
		resp.LinesAnalyzed = linesAnalyzed
		resp.Duration = time.Since(startTime).Milliseconds()
		return resp, nil
	}

	clones, err := detector.GroupClones(ctx, allBlocks)
	if err != nil {
		return nil, fmt.Errorf("duplicate detection cancelled: %w", err)
	}

	domainClones := s.convertClones(clones)
	s.sortClones(domainClones, req.SortBy)
	metrics := s.convertMetrics(analyzer.ComputeMetrics(clones, len(filePaths)))

	if s.progress != nil {
		s.progress.Complete(true)
	}

	return &domain.DetectResponse{
		Clones:        domainClones,
		Metrics:       metrics,
		FilesAnalyzed: len(filePaths),
		LinesAnalyzed: linesAnalyzed,
		Duration:      time.Since(startTime).Milliseconds(),
		Success:       true,
	}, nil
}

// ComputeSimilarity computes fused similarity between two code fragments
func (s *DuplicationServiceImpl) ComputeSimilarity(ctx context.Context, fragment1, fragment2 string) (float64, error) {
	if ctx == nil {
		return 0.0, fmt.Errorf("context cannot be nil")
	}
	if fragment1 == "" || fragment2 == "" {
		return 0.0, fmt.Errorf("fragments cannot be empty")
	}
	if len(fragment1) > maxFragmentSize || len(fragment2) > maxFragmentSize {
		return 0.0, fmt.Errorf("fragment size exceeds maximum allowed size of %d bytes", maxFragmentSize)
	}

	opts := analyzer.DefaultOptions()
	a := fragmentBlock(fragment1, opts)
	b := fragmentBlock(fragment2, opts)
	return analyzer.FusedSimilarity(a, b), nil
}

// fragmentBlock builds a comparable block from a raw fragment string.
func fragmentBlock(fragment string, opts analyzer.Options) *analyzer.CodeBlock {
	processed := analyzer.Preprocess(fragment, opts)
	return &analyzer.CodeBlock{
		File:      "<fragment>",
		StartLine: 1,
		EndLine:   len(strings.Split(fragment, "\n")),
		Content:   fragment,
		Processed: processed,
		Tokens:    analyzer.Tokenize(processed),
	}
}

// createOptions maps the domain request onto analyzer options
func (s *DuplicationServiceImpl) createOptions(req *domain.DetectRequest) analyzer.Options {
	return analyzer.Options{
		MinLines:            req.MinLines,
		MinTokens:           req.MinTokens,
		SimilarityThreshold: req.SimilarityThreshold,
		IgnoreWhitespace:    req.IgnoreWhitespace,
		IgnoreComments:      req.IgnoreComments,
		IgnoreImports:       req.IgnoreImports,
	}
}

// convertClones converts analyzer clones to domain clones
func (s *DuplicationServiceImpl) convertClones(clones []*analyzer.Clone) []*domain.DuplicateClone {
	domainClones := make([]*domain.DuplicateClone, 0, len(clones))

	for i, clone := range clones {
		instances := make([]domain.DuplicateInstance, 0, len(clone.Blocks))
		totalLines := 0
		totalTokens := 0
		for _, block := range clone.Blocks {
			instances = append(instances, domain.DuplicateInstance{
				File:      block.File,
				StartLine: block.StartLine,
				EndLine:   block.EndLine,
				Context:   blockContext(block.Content),
			})
			totalLines += block.LineCount()
			totalTokens += len(block.Tokens)
		}

		// Both sizes are reported as the rounded average over members.
		members := len(clone.Blocks)
		linesOfCode := (totalLines + members/2) / members
		tokenCount := (totalTokens + members/2) / members

		domainClones = append(domainClones, &domain.DuplicateClone{
			ID:          i + 1,
			Type:        convertCloneType(clone.Type),
			Similarity:  clone.Similarity,
			Instances:   instances,
			LinesOfCode: linesOfCode,
			TokenCount:  tokenCount,
			Suggestion:  convertSuggestion(analyzer.Suggest(clone.Blocks)),
		})
	}

	return domainClones
}

func convertCloneType(t string) domain.CloneType {
	switch t {
	case analyzer.CloneExact:
		return domain.CloneTypeExact
	case analyzer.CloneSimilar:
		return domain.CloneTypeSimilar
	default:
		return domain.CloneTypeStructural
	}
}

func convertSuggestion(sug *analyzer.Suggestion) *domain.RefactoringSuggestion {
	if sug == nil {
		return nil
	}
	return &domain.RefactoringSuggestion{
		Type:          domain.RefactoringType(sug.Type),
		Name:          sug.Name,
		Description:   sug.Description,
		ExtractedCode: sug.ExtractedCode,
		Parameters:    sug.Parameters,
		Benefit:       sug.Benefit,
	}
}

// blockContext returns the first non-blank line of a block, truncated for
// display in reports. Truncation counts runes so multi-byte characters are
// never split.
func blockContext(content string) string {
	const maxContextLen = 60
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if runes := []rune(trimmed); len(runes) > maxContextLen {
			return string(runes[:maxContextLen]) + "..."
		}
		return trimmed
	}
	return ""
}

// convertMetrics converts analyzer metrics to domain metrics
func (s *DuplicationServiceImpl) convertMetrics(m *analyzer.Metrics) *domain.DuplicationMetrics {
	return &domain.DuplicationMetrics{
		TotalClones:        m.TotalClones,
		DuplicateBlocks:    m.DuplicateBlocks,
		DuplicateLines:     m.DuplicateLines,
		DuplicationPercent: m.DuplicationPercent,
		AverageBlockSize:   m.AverageBlockSize,
		RiskScore:          m.RiskScore,
	}
}

// sortClones sorts clones in place by the requested criteria
func (s *DuplicationServiceImpl) sortClones(clones []*domain.DuplicateClone, sortBy domain.SortCriteria) {
	switch sortBy {
	case domain.SortBySize:
		sort.SliceStable(clones, func(i, j int) bool {
			return clones[i].LinesOfCode > clones[j].LinesOfCode
		})
	case domain.SortByLocation:
		sort.SliceStable(clones, func(i, j int) bool {
			a, b := clones[i], clones[j]
			if len(a.Instances) == 0 || len(b.Instances) == 0 {
				return len(a.Instances) > len(b.Instances)
			}
			if a.Instances[0].File != b.Instances[0].File {
				return a.Instances[0].File < b.Instances[0].File
			}
			return a.Instances[0].StartLine < b.Instances[0].StartLine
		})
	default: // similarity
		sort.SliceStable(clones, func(i, j int) bool {
			if clones[i].Similarity != clones[j].Similarity {
				return clones[i].Similarity > clones[j].Similarity
			}
			return clones[i].LinesOfCode > clones[j].LinesOfCode
		})
	}

	for i, clone := range clones {
		clone.ID = i + 1
	}
}
