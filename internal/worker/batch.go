package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/arcaxh/internal/logging"
	"github.com/ppiankov/arcaxh/internal/model"
	"github.com/ppiankov/arcaxh/internal/translator"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Tokenizer defines the interface for translating a line into tokens
type Tokenizer interface {
	Tokens(text string) []translator.Token
}

// LineJob represents the translation of one input line
type LineJob struct {
	Line      int
	Text      string
	Tokenizer Tokenizer
}

// Execute executes the line job
func (j *LineJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &LineOutcome{
			LineResult: model.LineResult{Line: j.Line, Text: j.Text},
			Error:      err,
		}
	}

	tokens := j.Tokenizer.Tokens(j.Text)
	return &LineOutcome{
		LineResult: model.LineResult{
			Line:        j.Line,
			Text:        j.Text,
			Translation: translator.Join(tokens),
		},
		Tokens: tokens,
	}
}

// LineOutcome represents the result of a line job
type LineOutcome struct {
	model.LineResult
	Tokens []translator.Token
	Error  error
}

// GetError returns the error from the line outcome
func (r *LineOutcome) GetError() error {
	return r.Error
}

// BatchProcessor translates many lines concurrently
type BatchProcessor struct {
	tokenizer   Tokenizer
	concurrency int
	logger      *slog.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(tokenizer Tokenizer, concurrency int, logger *slog.Logger) *BatchProcessor {
	return &BatchProcessor{
		tokenizer:   tokenizer,
		concurrency: concurrency,
		logger:      logging.Default(logger).With("component", "batch"),
	}
}

// ProcessLines translates lines concurrently. Outcomes are returned in input
// order. If ctx ends early the outcomes gathered so far are returned along
// with the context error.
func (b *BatchProcessor) ProcessLines(ctx context.Context, lines []string) ([]*LineOutcome, error) {
	if len(lines) == 0 {
		return []*LineOutcome{}, nil
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	b.logger.Debug("batch started", "lines", len(lines), "workers", b.concurrency)

	for i, text := range lines {
		job := &LineJob{
			Line:      i + 1,
			Text:      text,
			Tokenizer: b.tokenizer,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	outcomes := make([]*LineOutcome, len(results))
	for i, result := range results {
		outcomes[i] = result.(*LineOutcome)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Line < outcomes[j].Line
	})

	b.logger.Debug("batch finished", "lines", len(lines), "translated", len(outcomes))

	if err := ctx.Err(); err != nil {
		return outcomes, fmt.Errorf("batch interrupted after %d of %d lines: %w", len(outcomes), len(lines), err)
	}
	return outcomes, nil
}

// ProcessReader reads lines from r and translates them
func (b *BatchProcessor) ProcessReader(ctx context.Context, r io.Reader) ([]*LineOutcome, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}

	return b.ProcessLines(ctx, lines)
}

// ProcessFile reads lines from a file and translates them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*LineOutcome, error) {
	lines, err := ReadLinesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}

	return b.ProcessLines(ctx, lines)
}

// ReadLinesFromFile reads all lines of a file
func ReadLinesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadLines(file)
}

// ReadLines reads all lines of r. Blank lines are kept so output lines
// match input lines one to one; a trailing carriage return is dropped.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}

	return lines, nil
}
