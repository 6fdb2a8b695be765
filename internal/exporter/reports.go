package exporter

import (
	"log/slog"

	"cpinsights/internal/config"
	"cpinsights/pkg/contracts/domain"
)

// Report is one rendered CSV: a file name, its fixed header and the rows.
type Report struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Header rows of the LeetCode reports.
var (
	leetCodeOverallHeaders   = []string{"Difficulty", "Solved Count", "Total Submissions", "Acceptance Rate (%)"}
	leetCodeLanguageHeaders  = []string{"Language", "Count", "Usage (%)"}
	leetCodeTopicHeaders     = []string{"Topic", "Difficulty", "Solved Count"}
	leetCodeContestHeaders   = []string{"Contest Title", "Rank", "Rating", "Problems Solved", "Trend"}
	leetCodeSolvedHeaders    = []string{"Title", "Difficulty", "Language", "Tags", "Submission Time"}
	codeforcesOverallHeaders = []string{"Handle", "Rating", "Max Rating", "Rank", "Contribution"}
	codeforcesLanguageHeader = []string{"Language", "Count", "Percentage"}
	codeforcesTopicHeaders   = []string{"Tag", "Solved Count"}
	codeforcesContestHeaders = []string{"Contest Name", "Rank", "Old Rating", "New Rating"}
	codeforcesSolvedHeaders  = []string{"Title", "Index", "Language", "Timestamp"}
)

// LeetCodeOverallStats renders one row per difficulty bucket.
func LeetCodeOverallStats(stats []domain.DifficultyStat) Report {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Difficulty,
			formatInt(s.SolvedCount),
			formatInt(s.TotalSubmissions),
			formatPercent(s.AcceptanceRate),
		})
	}
	return Report{Name: config.OverallStatsFile, Headers: leetCodeOverallHeaders, Rows: rows}
}

// LeetCodeLanguageUsage renders language counts and usage share.
func LeetCodeLanguageUsage(usage []domain.LanguageUsage) Report {
	return Report{Name: config.LanguageUsageFile, Headers: leetCodeLanguageHeaders, Rows: languageRows(usage)}
}

// LeetCodeTopicStrengths renders (topic, difficulty) counts.
func LeetCodeTopicStrengths(strengths []domain.TopicStrength) Report {
	rows := make([][]string, 0, len(strengths))
	for _, s := range strengths {
		rows = append(rows, []string{s.Topic, s.Difficulty, formatInt(s.SolvedCount)})
	}
	return Report{Name: config.TopicStrengthsFile, Headers: leetCodeTopicHeaders, Rows: rows}
}

// LeetCodeContestPerformance renders contests; callers pass attended ones only.
func LeetCodeContestPerformance(contests []domain.ContestResult) Report {
	rows := make([][]string, 0, len(contests))
	for _, c := range contests {
		rows = append(rows, []string{
			c.ContestName,
			formatInt(c.Rank),
			formatRating(c.Rating),
			formatInt(c.ProblemsSolved),
			c.Trend,
		})
	}
	return Report{Name: config.ContestPerformanceFile, Headers: leetCodeContestHeaders, Rows: rows}
}

// LeetCodeSolvedQuestions renders the enriched recent accepted submissions.
func LeetCodeSolvedQuestions(records []domain.SubmissionRecord) Report {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Title,
			r.Difficulty,
			r.Language,
			formatTags(r.Tags),
			formatInt64(r.Timestamp),
		})
	}
	return Report{Name: config.SolvedQuestionsFile, Headers: leetCodeSolvedHeaders, Rows: rows}
}

// CodeforcesOverallStats renders the single profile row.
func CodeforcesOverallStats(profile domain.UserProfile) Report {
	rows := [][]string{{
		profile.Handle,
		formatOptionalInt(profile.Rating),
		formatOptionalInt(profile.MaxRating),
		profile.Rank,
		formatInt(profile.Contribution),
	}}
	return Report{Name: config.OverallStatsFile, Headers: codeforcesOverallHeaders, Rows: rows}
}

// CodeforcesLanguageUsage renders language counts and percentage.
func CodeforcesLanguageUsage(usage []domain.LanguageUsage) Report {
	return Report{Name: config.LanguageUsageFile, Headers: codeforcesLanguageHeader, Rows: languageRows(usage)}
}

// CodeforcesTopicStrengths renders per-tag counts.
func CodeforcesTopicStrengths(strengths []domain.TopicStrength) Report {
	rows := make([][]string, 0, len(strengths))
	for _, s := range strengths {
		rows = append(rows, []string{s.Topic, formatInt(s.SolvedCount)})
	}
	return Report{Name: config.TopicStrengthsFile, Headers: codeforcesTopicHeaders, Rows: rows}
}

// CodeforcesContestPerformance renders rating changes.
func CodeforcesContestPerformance(contests []domain.ContestResult) Report {
	rows := make([][]string, 0, len(contests))
	for _, c := range contests {
		rows = append(rows, []string{
			c.ContestName,
			formatInt(c.Rank),
			formatInt(c.RatingBefore),
			formatInt(c.RatingAfter),
		})
	}
	return Report{Name: config.ContestPerformanceFile, Headers: codeforcesContestHeaders, Rows: rows}
}

// CodeforcesSolvedQuestions renders accepted submissions.
func CodeforcesSolvedQuestions(records []domain.SubmissionRecord) Report {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Title, r.Index, r.Language, formatInt64(r.Timestamp)})
	}
	return Report{Name: config.SolvedQuestionsFile, Headers: codeforcesSolvedHeaders, Rows: rows}
}

func languageRows(usage []domain.LanguageUsage) [][]string {
	rows := make([][]string, 0, len(usage))
	for _, u := range usage {
		rows = append(rows, []string{u.Language, formatInt(u.Count), formatPercent(u.Percentage)})
	}
	return rows
}

// ReportExporter writes rendered reports as CSV files and, when enabled,
// collects them for the workbook.
type ReportExporter struct {
	csvWriter *CSVWriter
	workbook  *WorkbookExporter
	logger    *slog.Logger
}

// NewReportExporter creates an exporter for the output settings in cfg.
func NewReportExporter(paths *config.Paths, cfg config.OutputConfig, logger *slog.Logger) *ReportExporter {
	e := &ReportExporter{
		csvWriter: NewCSVWriter(paths, cfg.BOMPrefix, logger),
		logger:    logger,
	}
	if cfg.Workbook {
		e.workbook = NewWorkbookExporter(paths, logger)
	}
	return e
}

// Export writes report and returns the file path.
func (e *ReportExporter) Export(report Report) (string, error) {
	path, err := e.csvWriter.WriteSimpleCSV(report.Name, report.Headers, report.Rows)
	if err != nil {
		return path, err
	}

	if e.workbook != nil {
		e.workbook.Add(report)
	}

	e.logger.Info("Report written",
		slog.String("file", path),
		slog.Int("rows", len(report.Rows)))
	return path, nil
}

// Finish saves the workbook, if enabled, and returns its path.
func (e *ReportExporter) Finish() (string, error) {
	if e.workbook == nil {
		return "", nil
	}
	return e.workbook.Save(config.WorkbookFile)
}
