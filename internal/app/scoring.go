package app

import (
	"sort"

	"persona-quiz-service/internal/domain"
)

// validateSubmission checks answers against the catalog and reports the first
// offending entry. It is pure: no side effects, and answer order only matters
// for which error is reported first. Partial submissions are accepted.
func validateSubmission(catalog domain.Catalog, answers []domain.Answer) error {
	if len(answers) == 0 {
		return domain.ErrEmptySubmission
	}

	seen := make(map[string]struct{}, len(answers))
	for _, answer := range answers {
		if _, dup := seen[answer.QuestionID]; dup {
			return domain.DuplicateAnswerError(answer.QuestionID)
		}
		seen[answer.QuestionID] = struct{}{}

		question, ok := catalog.Question(answer.QuestionID)
		if !ok {
			return domain.UnknownQuestionError(answer.QuestionID)
		}
		if _, ok := question.Option(answer.OptionID); !ok {
			return domain.UnknownOptionError(answer.QuestionID, answer.OptionID)
		}
	}
	return nil
}

// scoreSubmission computes the per-category breakdown for a validated answer
// set: each selected option contributes weight × points to every category in
// its scores map. Integer arithmetic only; addition is commutative, so answer
// order never changes the totals. Categories that end up with zero points are
// left out of the breakdown.
func scoreSubmission(catalog domain.Catalog, answers []domain.Answer) domain.ScoreBreakdown {
	breakdown := make(domain.ScoreBreakdown)
	for _, answer := range answers {
		question, ok := catalog.Question(answer.QuestionID)
		if !ok {
			continue
		}
		option, ok := question.Option(answer.OptionID)
		if !ok {
			continue
		}
		weight := question.EffectiveWeight()
		for category, points := range option.Scores {
			if contribution := weight * points; contribution > 0 {
				breakdown[category] += contribution
			}
		}
	}
	return breakdown
}

// resolveWinner picks exactly one category from the breakdown. The cascade:
//
//  1. highest total score;
//  2. among tied categories, highest single-question contribution
//     (weight × points over the options the user actually selected);
//  3. lexicographically smallest category ID.
//
// Step 3 is a total order, so the winner is unique and deterministic for any
// input. Returns "" only for an empty breakdown.
func resolveWinner(catalog domain.Catalog, breakdown domain.ScoreBreakdown, answers []domain.Answer) string {
	if len(breakdown) == 0 {
		return ""
	}

	best := 0
	for _, total := range breakdown {
		if total > best {
			best = total
		}
	}
	contenders := make([]string, 0, len(breakdown))
	for category, total := range breakdown {
		if total == best {
			contenders = append(contenders, category)
		}
	}
	if len(contenders) == 1 {
		return contenders[0]
	}

	// Tie: compare the largest single-question contribution each contender
	// received from the selected options. Unselected options never count.
	bestPeak := -1
	peaks := make(map[string]int, len(contenders))
	for _, category := range contenders {
		peak := maxContribution(catalog, answers, category)
		peaks[category] = peak
		if peak > bestPeak {
			bestPeak = peak
		}
	}
	remaining := contenders[:0]
	for _, category := range contenders {
		if peaks[category] == bestPeak {
			remaining = append(remaining, category)
		}
	}
	if len(remaining) == 1 {
		return remaining[0]
	}

	sort.Strings(remaining)
	return remaining[0]
}

// maxContribution returns the largest weight × points the category earned
// from any single answered question, or 0 if it never appears.
func maxContribution(catalog domain.Catalog, answers []domain.Answer, category string) int {
	peak := 0
	for _, answer := range answers {
		question, ok := catalog.Question(answer.QuestionID)
		if !ok {
			continue
		}
		option, ok := question.Option(answer.OptionID)
		if !ok {
			continue
		}
		if contribution := question.EffectiveWeight() * option.Scores[category]; contribution > peak {
			peak = contribution
		}
	}
	return peak
}
