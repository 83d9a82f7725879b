package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/delphia/internal/model"
	"github.com/ppiankov/delphia/internal/rules"
)

// Answerer answers a single question; the engine is the production
// implementation.
type Answerer interface {
	Answer(ctx context.Context, question string) rules.Result
}

// BatchProcessor answers many independent questions concurrently. Each
// question dispatches exactly as it would interactively; only the fan-out
// is parallel.
type BatchProcessor struct {
	answerer   Answerer
	maxWorkers int
}

// NewBatchProcessor creates a processor with at most maxWorkers in flight
func NewBatchProcessor(answerer Answerer, maxWorkers int) *BatchProcessor {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &BatchProcessor{
		answerer:   answerer,
		maxWorkers: maxWorkers,
	}
}

// Process answers all questions with bounded concurrency. Reports keep the
// input order.
func (b *BatchProcessor) Process(ctx context.Context, questions []string) []model.QueryReport {
	if len(questions) == 0 {
		return []model.QueryReport{}
	}

	reports := make([]model.QueryReport, len(questions))
	semaphore := make(chan struct{}, b.maxWorkers)
	var wg sync.WaitGroup

	for i, q := range questions {
		wg.Add(1)
		go func(idx int, question string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				reports[idx] = model.QueryReport{
					Question: question,
					Outcome:  model.OutcomeFailed,
					Error:    ctx.Err().Error(),
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			start := time.Now()
			res := b.answerer.Answer(ctx, question)

			report := model.QueryReport{
				Question: question,
				Outcome:  res.Outcome.String(),
				Answers:  res.Answers,
				Elapsed:  time.Since(start),
			}
			if res.Err != nil {
				report.Error = res.Err.Error()
			}
			reports[idx] = report
		}(i, q)
	}

	wg.Wait()
	return reports
}

// ProcessFile reads questions from a file and answers them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]model.QueryReport, error) {
	questions, err := ReadQuestionsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return b.Process(ctx, questions), nil
}

// ReadQuestionsFromFile reads one question per line, skipping blank lines
// and #-comments. Duplicate lines are kept; asking twice is a valid request.
func ReadQuestionsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var questions []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return questions, nil
}
