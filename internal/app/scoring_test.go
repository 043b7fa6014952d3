package app

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"persona-quiz-service/internal/domain"
)

func TestValidateSubmission(t *testing.T) {
	catalog := weightedCatalog()

	tests := []struct {
		name     string
		answers  []domain.Answer
		wantErr  error
		mentions []string
	}{
		{name: "empty submission", answers: nil, wantErr: domain.ErrEmptySubmission},
		{
			name: "valid full submission",
			answers: []domain.Answer{
				{QuestionID: "q1", OptionID: "a"},
				{QuestionID: "q2", OptionID: "a"},
				{QuestionID: "q3", OptionID: "a"},
			},
		},
		{
			name:    "partial submission accepted",
			answers: []domain.Answer{{QuestionID: "q2", OptionID: "a"}},
		},
		{
			name: "duplicate question",
			answers: []domain.Answer{
				{QuestionID: "q1", OptionID: "a"},
				{QuestionID: "q1", OptionID: "b"},
			},
			wantErr:  domain.ErrDuplicateAnswer,
			mentions: []string{"q1"},
		},
		{
			name: "unknown question",
			answers: []domain.Answer{
				{QuestionID: "q1", OptionID: "a"},
				{QuestionID: "q99", OptionID: "a"},
			},
			wantErr:  domain.ErrUnknownQuestion,
			mentions: []string{"q99"},
		},
		{
			name: "unknown option",
			answers: []domain.Answer{
				{QuestionID: "q1", OptionID: "z"},
			},
			wantErr:  domain.ErrUnknownOption,
			mentions: []string{"q1", "z"},
		},
		{
			name: "first offender wins: duplicate before unknown",
			answers: []domain.Answer{
				{QuestionID: "q1", OptionID: "a"},
				{QuestionID: "q1", OptionID: "a"},
				{QuestionID: "q99", OptionID: "a"},
			},
			wantErr:  domain.ErrDuplicateAnswer,
			mentions: []string{"q1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSubmission(catalog, tc.answers)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			for _, id := range tc.mentions {
				if !strings.Contains(err.Error(), id) {
					t.Fatalf("error %q should cite %q", err, id)
				}
			}
		})
	}
}

func TestScoreSubmissionWeightedTotals(t *testing.T) {
	// architect = 4*3 + 2*3 = 18, leader = 4*1 + 5*3 = 19
	catalog := weightedCatalog()
	answers := []domain.Answer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "q2", OptionID: "a"},
		{QuestionID: "q3", OptionID: "a"},
	}

	breakdown := scoreSubmission(catalog, answers)
	want := domain.ScoreBreakdown{"architect": 18, "leader": 19}
	if !reflect.DeepEqual(breakdown, want) {
		t.Fatalf("breakdown = %v, want %v", breakdown, want)
	}

	if winner := resolveWinner(catalog, breakdown, answers); winner != "leader" {
		t.Fatalf("winner = %q, want leader", winner)
	}
}

func TestScoreSubmissionOmitsZeroCategories(t *testing.T) {
	catalog := domain.Catalog{Questions: []domain.Question{
		{ID: "q1", Weight: 3, Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"alpha": 2, "beta": 0}},
		}},
	}}
	breakdown := scoreSubmission(catalog, []domain.Answer{{QuestionID: "q1", OptionID: "a"}})
	if _, ok := breakdown["beta"]; ok {
		t.Fatalf("zero-point category should not appear: %v", breakdown)
	}
	if breakdown["alpha"] != 6 {
		t.Fatalf("alpha = %d, want 6", breakdown["alpha"])
	}
}

func TestScoreSubmissionCommutative(t *testing.T) {
	catalog := weightedCatalog()
	answers := []domain.Answer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "q2", OptionID: "a"},
		{QuestionID: "q3", OptionID: "a"},
	}

	want := scoreSubmission(catalog, answers)
	wantWinner := resolveWinner(catalog, want, answers)

	for _, perm := range permutations(answers) {
		got := scoreSubmission(catalog, perm)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %v changed breakdown: %v != %v", perm, got, want)
		}
		if winner := resolveWinner(catalog, got, perm); winner != wantWinner {
			t.Fatalf("permutation %v changed winner: %q != %q", perm, winner, wantWinner)
		}
	}
}

func TestResolveWinnerMaxContributionTieBreak(t *testing.T) {
	// alpha and beta both total 12; alpha's largest single-question
	// contribution is 8 (4*2), beta's is 6 (2*3).
	catalog := domain.Catalog{Questions: []domain.Question{
		{ID: "q1", Weight: 4, Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"alpha": 2, "beta": 1}},
		}},
		{ID: "q2", Weight: 2, Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"alpha": 2, "beta": 3}},
		}},
		{ID: "q3", Weight: 2, Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"beta": 1}},
		}},
	}}
	answers := []domain.Answer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "q2", OptionID: "a"},
		{QuestionID: "q3", OptionID: "a"},
	}

	breakdown := scoreSubmission(catalog, answers)
	if breakdown["alpha"] != 12 || breakdown["beta"] != 12 {
		t.Fatalf("fixture should tie at 12: %v", breakdown)
	}
	if winner := resolveWinner(catalog, breakdown, answers); winner != "alpha" {
		t.Fatalf("winner = %q, want alpha (higher peak contribution)", winner)
	}
}

func TestResolveWinnerAlphabeticalFallback(t *testing.T) {
	// Identical score profiles: equal totals and equal peak contributions.
	catalog := domain.Catalog{Questions: []domain.Question{
		{ID: "q1", Weight: 2, Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"beta": 3, "alpha": 3}},
		}},
		{ID: "q2", Weight: 1, Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"beta": 2, "alpha": 2}},
		}},
	}}
	answers := []domain.Answer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "q2", OptionID: "a"},
	}

	breakdown := scoreSubmission(catalog, answers)
	if winner := resolveWinner(catalog, breakdown, answers); winner != "alpha" {
		t.Fatalf("winner = %q, want alpha (lexicographically first)", winner)
	}
}

func TestResolveWinnerIgnoresUnselectedOptions(t *testing.T) {
	// beta would have a huge contribution from q2 option b, but the user
	// picked option a; only selected options count toward the tie-break.
	catalog := domain.Catalog{Questions: []domain.Question{
		{ID: "q1", Weight: 1, Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"alpha": 4, "beta": 2}},
		}},
		{ID: "q2", Weight: 1, Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"beta": 2, "alpha": 0}},
			{ID: "b", Scores: map[string]int{"beta": 50}},
		}},
	}}
	answers := []domain.Answer{
		{QuestionID: "q1", OptionID: "a"},
		{QuestionID: "q2", OptionID: "a"},
	}

	breakdown := scoreSubmission(catalog, answers)
	if breakdown["alpha"] != 4 || breakdown["beta"] != 4 {
		t.Fatalf("fixture should tie at 4: %v", breakdown)
	}
	if winner := resolveWinner(catalog, breakdown, answers); winner != "alpha" {
		t.Fatalf("winner = %q, want alpha (peak 4 vs 2)", winner)
	}
}

func TestResolveWinnerDefaultWeight(t *testing.T) {
	// Zero weight counts as 1.
	catalog := domain.Catalog{Questions: []domain.Question{
		{ID: "q1", Options: []domain.Option{
			{ID: "a", Scores: map[string]int{"alpha": 3}},
		}},
	}}
	answers := []domain.Answer{{QuestionID: "q1", OptionID: "a"}}

	breakdown := scoreSubmission(catalog, answers)
	if breakdown["alpha"] != 3 {
		t.Fatalf("alpha = %d, want 3", breakdown["alpha"])
	}
	if winner := resolveWinner(catalog, breakdown, answers); winner != "alpha" {
		t.Fatalf("winner = %q, want alpha", winner)
	}
}

// weightedCatalog mirrors the worked example: Q1 weight 4, Q2 weight 2,
// Q3 weight 5, each with an option awarding architect/leader points.
func weightedCatalog() domain.Catalog {
	return domain.Catalog{
		Questions: []domain.Question{
			{ID: "q1", Weight: 4, Position: 1, Options: []domain.Option{
				{ID: "a", Scores: map[string]int{"architect": 3, "leader": 1}},
				{ID: "b", Scores: map[string]int{"diplomat": 2}},
			}},
			{ID: "q2", Weight: 2, Position: 2, Options: []domain.Option{
				{ID: "a", Scores: map[string]int{"architect": 3}},
				{ID: "b", Scores: map[string]int{"leader": 1}},
			}},
			{ID: "q3", Weight: 5, Position: 3, Options: []domain.Option{
				{ID: "a", Scores: map[string]int{"leader": 3}},
				{ID: "b", Scores: map[string]int{"diplomat": 1}},
			}},
		},
		Categories: map[string]domain.Category{
			"architect": {ID: "architect", Name: "The Architect"},
			"leader":    {ID: "leader", Name: "The Leader"},
			"diplomat":  {ID: "diplomat", Name: "The Diplomat"},
		},
	}
}

func permutations(answers []domain.Answer) [][]domain.Answer {
	if len(answers) <= 1 {
		return [][]domain.Answer{append([]domain.Answer(nil), answers...)}
	}
	var out [][]domain.Answer
	for i := range answers {
		rest := make([]domain.Answer, 0, len(answers)-1)
		rest = append(rest, answers[:i]...)
		rest = append(rest, answers[i+1:]...)
		for _, perm := range permutations(rest) {
			out = append(out, append([]domain.Answer{answers[i]}, perm...))
		}
	}
	return out
}
