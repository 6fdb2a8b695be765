package domain

import (
	"fmt"
	"strings"
)

// Platform identifies the competitive-programming site a profile is read from.
type Platform string

const (
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeforces Platform = "codeforces"
)

// ParsePlatform converts a user supplied platform name into a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformLeetCode:
		return PlatformLeetCode, nil
	case PlatformCodeforces:
		return PlatformCodeforces, nil
	default:
		return "", fmt.Errorf("unknown platform %q", s)
	}
}

// Difficulty buckets as reported by LeetCode. "All" is the aggregate bucket
// returned alongside the three real ones.
const (
	DifficultyAll    = "All"
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// VerdictAccepted is the Codeforces verdict for an accepted submission.
const VerdictAccepted = "OK"

// SubmissionRecord is one code solution attempt.
//
// Records are built once by a fetcher and never mutated afterwards; metadata
// enrichment returns a copy through WithMeta.
type SubmissionRecord struct {
	// ID is the platform submission identifier, when known.
	ID string `json:"id,omitempty"`

	// Title is the human readable problem name.
	Title string `json:"title"`

	// Slug is the LeetCode titleSlug; empty for Codeforces.
	Slug string `json:"slug,omitempty"`

	// Index is the Codeforces problem index within its contest ("A", "B1").
	Index string `json:"index,omitempty"`

	Language string `json:"language"`

	// Timestamp is the submission time in unix seconds.
	Timestamp int64 `json:"timestamp"`

	// Difficulty is empty until resolved from ProblemMeta (LeetCode).
	Difficulty string `json:"difficulty,omitempty"`

	Tags []string `json:"tags,omitempty"`

	// Verdict is the judge verdict. Empty while a Codeforces submission is
	// still being judged.
	Verdict string `json:"verdict,omitempty"`
}

// WithMeta returns a copy of the record with difficulty and tags taken from meta.
func (s SubmissionRecord) WithMeta(meta ProblemMeta) SubmissionRecord {
	s.Difficulty = meta.Difficulty
	s.Tags = append([]string(nil), meta.Tags...)
	return s
}

// Accepted reports whether the record counts as solved.
func (s SubmissionRecord) Accepted() bool {
	return s.Verdict == VerdictAccepted
}

// ProblemMeta is the per-problem enrichment fetched by slug.
type ProblemMeta struct {
	Slug       string   `json:"slug"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
}
