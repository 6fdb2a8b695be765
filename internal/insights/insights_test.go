package insights

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cpinsights/internal/errors"
	"cpinsights/pkg/contracts/domain"
)

func langs(names ...string) []domain.SubmissionRecord {
	records := make([]domain.SubmissionRecord, 0, len(names))
	for _, n := range names {
		records = append(records, domain.SubmissionRecord{Language: n})
	}
	return records
}

func TestLanguageUsage(t *testing.T) {
	got := LanguageUsage(langs("python", "python", "cpp"))

	want := []domain.LanguageUsage{
		{Language: "python", Count: 2, Percentage: 66.67},
		{Language: "cpp", Count: 1, Percentage: 33.33},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LanguageUsage mismatch (-want +got):\n%s", diff)
	}
}

func TestLanguageUsage_Empty(t *testing.T) {
	assert.Empty(t, LanguageUsage(nil))
	assert.Empty(t, LanguageUsage([]domain.SubmissionRecord{}))
}

func TestLanguageUsage_PercentagesSumToHundred(t *testing.T) {
	inputs := [][]domain.SubmissionRecord{
		langs("go"),
		langs("python", "python", "cpp"),
		langs("a", "b", "c"),
		langs("a", "b", "c", "d", "e", "f", "g"),
		langs("java", "java", "java", "kotlin", "python3", "python3", "rust", "cpp", "cpp", "cpp", "cpp"),
	}

	for i, records := range inputs {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			usage := LanguageUsage(records)

			var sum float64
			var count int
			for _, u := range usage {
				sum += u.Percentage
				count += u.Count
			}
			assert.Equal(t, len(records), count)
			assert.InDelta(t, 100.0, sum, 0.01*float64(len(usage)))
		})
	}
}

func TestLanguageUsage_FirstOccurrenceOrder(t *testing.T) {
	usage := LanguageUsage(langs("rust", "go", "rust", "c", "go"))

	order := make([]string, 0, len(usage))
	for _, u := range usage {
		order = append(order, u.Language)
	}
	assert.Equal(t, []string{"rust", "go", "c"}, order)
}

func TestTopicStrengths(t *testing.T) {
	records := []domain.SubmissionRecord{
		{Difficulty: "Easy", Tags: []string{"Array", "Hash Table"}},
		{Difficulty: "Medium", Tags: []string{"Array", "Math"}},
		{Difficulty: "Easy", Tags: []string{"Array"}},
		{Difficulty: "Hard"},
	}

	t.Run("per tag and difficulty", func(t *testing.T) {
		want := []domain.TopicStrength{
			{Topic: "Array", Difficulty: "Easy", SolvedCount: 2},
			{Topic: "Hash Table", Difficulty: "Easy", SolvedCount: 1},
			{Topic: "Array", Difficulty: "Medium", SolvedCount: 1},
			{Topic: "Math", Difficulty: "Medium", SolvedCount: 1},
		}
		if diff := cmp.Diff(want, TopicStrengths(records, true)); diff != "" {
			t.Errorf("TopicStrengths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("per tag", func(t *testing.T) {
		want := []domain.TopicStrength{
			{Topic: "Array", SolvedCount: 3},
			{Topic: "Hash Table", SolvedCount: 1},
			{Topic: "Math", SolvedCount: 1},
		}
		if diff := cmp.Diff(want, TopicStrengths(records, false)); diff != "" {
			t.Errorf("TopicStrengths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no tags", func(t *testing.T) {
		assert.Empty(t, TopicStrengths([]domain.SubmissionRecord{{Title: "x"}}, true))
	})
}

func TestAcceptanceStats(t *testing.T) {
	ac := []domain.DifficultyCount{
		{Difficulty: "Easy", Count: 10},
		{Difficulty: "Medium", Count: 5},
		{Difficulty: "Hard", Count: 1},
	}
	total := []domain.DifficultyCount{
		{Difficulty: "Hard", Submissions: 10},
		{Difficulty: "Easy", Submissions: 20},
		{Difficulty: "Medium", Submissions: 20},
	}

	stats, err := AcceptanceStats(ac, total)
	require.NoError(t, err)

	want := []domain.DifficultyStat{
		{Difficulty: "Easy", SolvedCount: 10, TotalSubmissions: 20, AcceptanceRate: 50},
		{Difficulty: "Medium", SolvedCount: 5, TotalSubmissions: 20, AcceptanceRate: 25},
		{Difficulty: "Hard", SolvedCount: 1, TotalSubmissions: 10, AcceptanceRate: 10},
	}
	assert.Equal(t, want, stats)
}

func TestAcceptanceStats_Rates(t *testing.T) {
	tests := []struct {
		solved, total int
		want          float64
	}{
		{solved: 0, total: 0, want: 0},
		{solved: 5, total: 0, want: 0},
		{solved: 1, total: 3, want: 33.33},
		{solved: 2, total: 3, want: 66.67},
		{solved: 7, total: 7, want: 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.solved, tt.total), func(t *testing.T) {
			stats, err := AcceptanceStats(
				[]domain.DifficultyCount{{Difficulty: "All", Count: tt.solved}},
				[]domain.DifficultyCount{{Difficulty: "All", Submissions: tt.total}},
			)
			require.NoError(t, err)
			require.Len(t, stats, 1)
			assert.Equal(t, tt.want, stats[0].AcceptanceRate)
		})
	}
}

func TestAcceptanceStats_LookupMismatch(t *testing.T) {
	ac := []domain.DifficultyCount{
		{Difficulty: "Easy", Count: 1},
		{Difficulty: "Medium", Count: 1},
		{Difficulty: "Hard", Count: 1},
	}
	total := []domain.DifficultyCount{{Difficulty: "Medium", Submissions: 4}}

	stats, err := AcceptanceStats(ac, total)
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLookupMismatch))
	assert.Contains(t, err.Error(), "Easy, Hard")

	missing, ok := apperrors.ContextValue(err, apperrors.CtxMissing)
	require.True(t, ok)
	assert.Equal(t, []string{"Easy", "Hard"}, missing)
}

func TestAcceptanceStats_DuplicateTotals(t *testing.T) {
	_, err := AcceptanceStats(
		[]domain.DifficultyCount{{Difficulty: "Easy", Count: 1}},
		[]domain.DifficultyCount{{Difficulty: "Easy", Submissions: 2}, {Difficulty: "Easy", Submissions: 3}},
	)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestAcceptanceStats_ExtraTotalsIgnored(t *testing.T) {
	stats, err := AcceptanceStats(
		[]domain.DifficultyCount{{Difficulty: "Easy", Count: 1}},
		[]domain.DifficultyCount{{Difficulty: "Easy", Submissions: 2}, {Difficulty: "Hard", Submissions: 9}},
	)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 50.0, stats[0].AcceptanceRate)
}

func TestAttendedContests(t *testing.T) {
	results := []domain.ContestResult{
		{ContestName: "Weekly 1", Attended: true},
		{ContestName: "Weekly 2", Attended: false},
		{ContestName: "Biweekly 3", Attended: true},
	}

	attended := AttendedContests(results)
	require.Len(t, attended, 2)
	for _, c := range attended {
		assert.True(t, c.Attended)
	}
	assert.Equal(t, "Biweekly 3", attended[1].ContestName)
	assert.Empty(t, AttendedContests(nil))
}

func TestAcceptedOnly(t *testing.T) {
	records := []domain.SubmissionRecord{
		{Title: "A", Verdict: "OK"},
		{Title: "B", Verdict: "WRONG_ANSWER"},
		{Title: "C", Verdict: ""},
		{Title: "D", Verdict: "OK"},
	}

	accepted := AcceptedOnly(records)
	require.Len(t, accepted, 2)
	assert.Equal(t, "A", accepted[0].Title)
	assert.Equal(t, "D", accepted[1].Title)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 12.35, Round2(12.345000001))
	assert.Equal(t, 50.0, Round2(50))
	assert.Equal(t, 0.0, Round2(0))
}
