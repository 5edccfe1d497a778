package spreadsheet

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/domain"
)

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"words.xlsx", FormatXLSX, false},
		{"WORDS.CSV", FormatCSV, false},
		{"words.ods", "", true},
		{"words", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := FormatOf(tc.path)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRead_CSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		wantSources []string
		wantDropped int
		wantFolded  int
	}{
		{
			name:        "positional columns without header",
			input:       "Haus,casa\nHund,perro\n",
			wantSources: []string{"Haus", "Hund"},
		},
		{
			name:        "german header names",
			input:       "Deutsch,Spanisch\nKatze,gato\n",
			wantSources: []string{"Katze"},
		},
		{
			name:        "header with swapped columns",
			input:       "target,source\ncasa,Haus\n",
			wantSources: []string{"Haus"},
		},
		{
			name:        "blank and incomplete rows are dropped",
			input:       "de,es\nHaus,casa\n,perro\nKatze\n\n",
			wantSources: []string{"Haus"},
			wantDropped: 2,
		},
		{
			name:        "duplicate keys fold into the first row",
			input:       "Haus,casa\n haus ,hogar\n",
			wantSources: []string{"Haus"},
			wantFolded:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Read(strings.NewReader(tc.input), FormatCSV)
			require.NoError(t, err)

			var sources []string
			for _, e := range res.Entries {
				sources = append(sources, e.Source)
			}
			assert.Equal(t, tc.wantSources, sources)
			assert.Equal(t, tc.wantDropped, res.Dropped)
			assert.Equal(t, tc.wantFolded, res.Folded)
		})
	}
}

func TestRead_CSVStatsColumns(t *testing.T) {
	t.Parallel()

	input := "source,target,correctCount,wrongCount,timesShown\nHaus,casa,3,1,4\nHund,perro,x,,\n"
	res, err := Read(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)

	assert.Equal(t, 3, res.Entries[0].Stats.CorrectCount)
	assert.Equal(t, 1, res.Entries[0].Stats.WrongCount)
	assert.Equal(t, 4, res.Entries[0].Stats.TimesShown)
	assert.Equal(t, domain.NewStatistics(), res.Entries[1].Stats)
}

func TestRead_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Read(strings.NewReader("\n\n"), FormatCSV)
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = Read(strings.NewReader("source,target\n"), FormatCSV)
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func entries(t *testing.T) []domain.VocabEntry {
	t.Helper()

	haus, err := domain.NewVocabEntry("Haus", "casa")
	require.NoError(t, err)
	haus.Stats = haus.Stats.RecordShown(1).RecordOutcome(true).RecordShown(2).RecordOutcome(false)

	hund, err := domain.NewVocabEntry("Hund", "perro")
	require.NoError(t, err)

	return []domain.VocabEntry{haus, hund}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, entries(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "source,target,correctCount,wrongCount,timesShown,rate", lines[0])
	assert.Equal(t, "Haus,casa,1,1,2,50", lines[1])
	assert.Equal(t, "Hund,perro,0,0,0,", lines[2])
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{".xlsx", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vokabeln"+ext)
			require.NoError(t, WriteFile(path, entries(t)))

			res, err := ReadFile(path)
			require.NoError(t, err)
			require.Len(t, res.Entries, 2)
			assert.Equal(t, 2, res.Rows)

			assert.Equal(t, "Haus", res.Entries[0].Source)
			assert.Equal(t, "casa", res.Entries[0].Target)
			assert.Equal(t, 1, res.Entries[0].Stats.CorrectCount)
			assert.Equal(t, 1, res.Entries[0].Stats.WrongCount)
			assert.Equal(t, 2, res.Entries[0].Stats.TimesShown)
			assert.Equal(t, "perro", res.Entries[1].Target)
		})
	}
}

func TestWriteFile_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := WriteFile(filepath.Join(t.TempDir(), "out.txt"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
