package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/ragline/core"
)

// Scorer rates how well a retrieved context answers a question. Score is in
// [0, 1], higher is better.
type Scorer interface {
	Score(question, contextText string) float64
}

// QuestionResult is the evaluation outcome for a single test question.
type QuestionResult struct {
	Question  string
	Score     float64
	Retrieved int
	Duration  time.Duration
}

// EvaluationReport summarizes a retrieval evaluation run.
type EvaluationReport struct {
	Results   []QuestionResult
	MeanScore float64
	Duration  time.Duration
}

// Evaluate runs retrieval for each test question and scores the retrieved
// context. Generation is not exercised; this measures the retrieval side
// only. A nil scorer defaults to LexicalScorer.
func (e *Engine) Evaluate(ctx context.Context, questions []string, scorer Scorer) (*EvaluationReport, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %w", core.ErrPrecondition, ErrNoQuestions)
	}
	if scorer == nil {
		scorer = LexicalScorer{}
	}

	if err := e.beginQuery(); err != nil {
		return nil, err
	}
	defer e.endQuery()

	started := time.Now()
	report := &EvaluationReport{Results: make([]QuestionResult, 0, len(questions))}

	var total float64
	for _, question := range questions {
		qStart := time.Now()
		contextText, err := e.retrieveContext(ctx, question)
		if err != nil {
			return nil, err
		}

		retrieved := 0
		if contextText != "" {
			retrieved = strings.Count(contextText, "\n\n") + 1
		}

		score := scorer.Score(question, contextText)
		total += score
		report.Results = append(report.Results, QuestionResult{
			Question:  question,
			Score:     score,
			Retrieved: retrieved,
			Duration:  time.Since(qStart),
		})
	}

	report.MeanScore = total / float64(len(questions))
	report.Duration = time.Since(started)
	return report, nil
}

// Stop words ignored when measuring query-word coverage
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "which": true, "how": true,
}

// LexicalScorer scores retrieval by the fraction of meaningful question
// words that appear in the retrieved context.
type LexicalScorer struct{}

var _ Scorer = LexicalScorer{}

func (LexicalScorer) Score(question, contextText string) float64 {
	queryWords := tokenizeAndFilter(question)
	if len(queryWords) == 0 {
		return 0
	}

	contextWords := tokenizeAndFilter(contextText)
	contextSet := make(map[string]bool, len(contextWords))
	for _, word := range contextWords {
		contextSet[word] = true
	}

	matched := 0
	for _, word := range queryWords {
		if contextSet[word] {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords))
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}
