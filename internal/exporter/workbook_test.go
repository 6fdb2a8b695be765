package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cpinsights/internal/config"
	"cpinsights/internal/shared/testutil"
	"cpinsights/pkg/contracts/domain"
)

func TestWorkbookExporter_OneSheetPerReport(t *testing.T) {
	exp, dir := newExporter(t, config.OutputConfig{Workbook: true})

	_, err := exp.Export(CodeforcesOverallStats(domain.UserProfile{Handle: "tourist", Rating: testutil.Ptr(3800), Rank: "legendary grandmaster"}))
	require.NoError(t, err)
	_, err = exp.Export(CodeforcesSolvedQuestions([]domain.SubmissionRecord{
		{Title: "To My Critics", Index: "1850A", Language: "GNU C++17", Timestamp: 1690000100},
	}))
	require.NoError(t, err)

	path, err := exp.Finish()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.WorkbookFile), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"overall_stats", "solved_questions"}, f.GetSheetList())

	rows, err := f.GetRows("solved_questions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Title", "Index", "Language", "Timestamp"}, rows[0])
	assert.Equal(t, "To My Critics", rows[1][0])
	assert.Equal(t, "1850A", rows[1][1])

	handle, err := f.GetCellValue("overall_stats", "A2")
	require.NoError(t, err)
	assert.Equal(t, "tourist", handle)

	rating, err := f.GetCellValue("overall_stats", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3800", rating)
}

func TestWorkbookExporter_EmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)
	w := NewWorkbookExporter(&config.Paths{OutputDir: dir}, logger)

	path, err := w.Save(config.WorkbookFile)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NoFileExists(t, filepath.Join(dir, config.WorkbookFile))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "overall_stats", SheetName("overall_stats.csv"))
	assert.Equal(t, "language_usage", SheetName("/tmp/out/language_usage.csv"))
	assert.Equal(t, "plain", SheetName("plain"))
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 42.0, cellValue("42"))
	assert.Equal(t, 66.67, cellValue("66.67"))
	assert.Equal(t, "1850A", cellValue("1850A"))
	assert.Equal(t, "NaN", cellValue("NaN"))
	assert.Equal(t, "Inf", cellValue("Inf"))
	assert.Equal(t, "", cellValue(""))
}
