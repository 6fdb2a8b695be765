package config

import (
	"time"

	"cpinsights/pkg/contracts"
)

// Application constants
const (
	AppName    = "cpinsights"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (CPI_OUTPUT_DIR, ...)
	EnvPrefix = "CPI"

	// API endpoints
	DefaultLeetCodeEndpoint  = "https://leetcode.com/graphql"
	DefaultCodeforcesBaseURL = "https://codeforces.com/api/"
	DefaultUserAgent         = "cpinsights/" + AppVersion

	// Fetch limits
	DefaultRecentLimit = 200
	DefaultSolvedLimit = 50
	DefaultStatusCount = 10000

	// Codeforces pacing: one call every two seconds, first call immediate
	DefaultCodeforcesRPS   = 0.5
	DefaultCodeforcesBurst = 1

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// Cache Settings
	CacheFileName          = "problem_meta.db"
	DefaultCacheTTL        = 7 * 24 * time.Hour
	DefaultCacheMemorySize = 1024

	// Log Settings
	DefaultLogFile = "logs/cpinsights.log"
)

// Report file names, written to the output directory on every run.
const (
	OverallStatsFile       = "overall_stats.csv"
	LanguageUsageFile      = "language_usage.csv"
	TopicStrengthsFile     = "topic_strengths.csv"
	ContestPerformanceFile = "contest_performance.csv"
	SolvedQuestionsFile    = "solved_questions.csv"
	WorkbookFile           = "insights.xlsx"
)

// ReportFiles lists the report files in the order a run writes them.
var ReportFiles = []string{
	OverallStatsFile,
	LanguageUsageFile,
	TopicStrengthsFile,
	ContestPerformanceFile,
	SolvedQuestionsFile,
}
