package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpinsights/internal/config"
	apperrors "cpinsights/internal/errors"
	"cpinsights/internal/shared/testutil"
)

func setupWriter(t *testing.T, bom bool) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)
	return NewCSVWriter(&config.Paths{OutputDir: dir}, bom, logger), dir
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name: "headers and records",
			options: WriteOptions{
				Headers: []string{"Language", "Count", "Usage (%)"},
				Records: [][]string{{"python", "2", "66.67"}, {"cpp", "1", "33.33"}},
			},
			want: "Language,Count,Usage (%)\npython,2,66.67\ncpp,1,33.33\n",
		},
		{
			name: "header only",
			options: WriteOptions{
				Headers: []string{"Tag", "Solved Count"},
			},
			want: "Tag,Solved Count\n",
		},
		{
			name: "quoted fields",
			options: WriteOptions{
				Headers: []string{"Title", "Tags"},
				Records: [][]string{{"Two Sum", "Array, Hash Table"}, {`Say "hi"`, ""}},
			},
			want: "Title,Tags\nTwo Sum,\"Array, Hash Table\"\n\"Say \"\"hi\"\"\",\n",
		},
		{
			name: "bom prefix",
			options: WriteOptions{
				Headers:   []string{"A"},
				Records:   [][]string{{"1"}},
				BOMPrefix: true,
			},
			want: "\xEF\xBB\xBFA\n1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, dir := setupWriter(t, false)

			path, err := writer.WriteCSV("out.csv", tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "out.csv"), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestCSVWriter_Truncates(t *testing.T) {
	writer, _ := setupWriter(t, false)

	_, err := writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}, {"2"}, {"3"}})
	require.NoError(t, err)
	path, err := writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"9"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A\n9\n", string(data))
}

func TestCSVWriter_SimpleUsesWriterBOM(t *testing.T) {
	writer, _ := setupWriter(t, true)

	path, err := writer.WriteSimpleCSV("bom.csv", []string{"A"}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, utf8BOM...), "A\n"...), data)
}

func TestCSVWriter_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)
	writer := NewCSVWriter(&config.Paths{OutputDir: filepath.Join(dir, "nested", "reports")}, false, logger)

	path, err := writer.WriteSimpleCSV("x.csv", []string{"A"}, nil)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupWriter(t, false)
	target := filepath.Join(t.TempDir(), "abs.csv")

	path, err := writer.WriteSimpleCSV(target, []string{"A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, target, path)
	assert.FileExists(t, target)
}

func TestCSVWriter_StorageError(t *testing.T) {
	writer, dir := setupWriter(t, false)

	// A directory where the file should go makes the open fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.csv"), 0755))

	_, err := writer.WriteSimpleCSV("taken.csv", []string{"A"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))

	file, ok := apperrors.ContextValue(err, apperrors.CtxFile)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "taken.csv"), file)
}
