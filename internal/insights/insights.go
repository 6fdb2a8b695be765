// Package insights reduces fetched records into the aggregates written as
// reports. All functions are pure and return rows in first-occurrence order,
// so the same input always yields the same output.
package insights

import (
	"fmt"
	"math"

	apperrors "cpinsights/internal/errors"
	"cpinsights/pkg/contracts/domain"
)

// Round2 rounds a percentage to two decimals, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentage returns part/whole*100, or 0 when whole is 0.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// LanguageUsage counts records per language. Percentages are relative to the
// number of records. Empty input yields no rows.
func LanguageUsage(records []domain.SubmissionRecord) []domain.LanguageUsage {
	if len(records) == 0 {
		return nil
	}

	index := make(map[string]int)
	var usage []domain.LanguageUsage
	for _, r := range records {
		i, ok := index[r.Language]
		if !ok {
			i = len(usage)
			index[r.Language] = i
			usage = append(usage, domain.LanguageUsage{Language: r.Language})
		}
		usage[i].Count++
	}

	for i := range usage {
		usage[i].Percentage = Round2(percentage(usage[i].Count, len(records)))
	}
	return usage
}

// TopicStrengths counts tags across records. With withDifficulty each tag is
// counted per (tag, difficulty) pair; otherwise per tag alone.
func TopicStrengths(records []domain.SubmissionRecord, withDifficulty bool) []domain.TopicStrength {
	index := make(map[domain.TopicKey]int)
	var strengths []domain.TopicStrength

	for _, r := range records {
		for _, tag := range r.Tags {
			key := domain.TopicKey{Topic: tag}
			if withDifficulty {
				key.Difficulty = r.Difficulty
			}

			i, ok := index[key]
			if !ok {
				i = len(strengths)
				index[key] = i
				strengths = append(strengths, domain.TopicStrength{Topic: key.Topic, Difficulty: key.Difficulty})
			}
			strengths[i].SolvedCount++
		}
	}
	return strengths
}

// AcceptanceStats joins accepted buckets to total buckets by difficulty.
//
// Every accepted bucket must have a total counterpart; all missing
// difficulties are reported together in a LOOKUP_MISMATCH error before any
// stat is computed. A difficulty listed twice in totals is a VALIDATION
// error.
func AcceptanceStats(ac, total []domain.DifficultyCount) ([]domain.DifficultyStat, error) {
	totals := make(map[string]domain.DifficultyCount, len(total))
	for _, t := range total {
		if _, dup := totals[t.Difficulty]; dup {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("duplicate total submission bucket for difficulty %s", t.Difficulty))
		}
		totals[t.Difficulty] = t
	}

	var missing []string
	for _, a := range ac {
		if _, ok := totals[a.Difficulty]; !ok {
			missing = append(missing, a.Difficulty)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewLookupMismatchError(missing)
	}

	stats := make([]domain.DifficultyStat, 0, len(ac))
	for _, a := range ac {
		submissions := totals[a.Difficulty].Submissions
		stats = append(stats, domain.DifficultyStat{
			Difficulty:       a.Difficulty,
			SolvedCount:      a.Count,
			TotalSubmissions: submissions,
			AcceptanceRate:   Round2(percentage(a.Count, submissions)),
		})
	}
	return stats, nil
}

// AttendedContests keeps the contests the user took part in.
func AttendedContests(results []domain.ContestResult) []domain.ContestResult {
	attended := make([]domain.ContestResult, 0, len(results))
	for _, r := range results {
		if r.Attended {
			attended = append(attended, r)
		}
	}
	return attended
}

// AcceptedOnly keeps submissions with an accepted verdict.
func AcceptedOnly(records []domain.SubmissionRecord) []domain.SubmissionRecord {
	accepted := make([]domain.SubmissionRecord, 0, len(records))
	for _, r := range records {
		if r.Accepted() {
			accepted = append(accepted, r)
		}
	}
	return accepted
}
