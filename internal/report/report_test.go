package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pricediff/internal/report"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

const header = "商品名,型番,商品画像URL,楽天価格,楽天送料,楽天URL," +
	"Amazon価格,Amazon送料,AmazonURL,Yahoo価格,Yahoo送料,YahooURL"

func int64Ptr(v int64) *int64 { return &v }

func TestRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcomes []domain.Outcome
		want     []string
	}{
		{
			name: "all absent keeps search term",
			outcomes: []domain.Outcome{
				{Source: domain.SourceRakuten, Status: domain.OutcomeSkipped},
				{Source: domain.SourceAmazon, Status: domain.OutcomeFailed},
				{Source: domain.SourceYahoo, Status: domain.OutcomeEmpty},
			},
			want: []string{"", "ABC-123", "", "", "", "", "", "", "", "", "", ""},
		},
		{
			name: "shipping unknown versus free",
			outcomes: []domain.Outcome{
				{Source: domain.SourceRakuten, Status: domain.OutcomeFound, Listing: &domain.Listing{
					Name: "Widget A", ImageURL: "https://r/img.jpg", Price: 1200, URL: "https://r/a",
				}},
				{Source: domain.SourceAmazon, Status: domain.OutcomeEmpty},
				{Source: domain.SourceYahoo, Status: domain.OutcomeFound, Listing: &domain.Listing{
					Name: "Widget Y", Price: 1100, Shipping: int64Ptr(0), URL: "https://y/a",
				}},
			},
			want: []string{
				"Widget A", "ABC-123", "https://r/img.jpg",
				"1200", "", "https://r/a",
				"", "", "",
				"1100", "0", "https://y/a",
			},
		},
		{
			name: "amazon provides name when rakuten absent",
			outcomes: []domain.Outcome{
				{Source: domain.SourceRakuten, Status: domain.OutcomeFailed},
				{Source: domain.SourceAmazon, Status: domain.OutcomeFound, Listing: &domain.Listing{
					Name: "Widget B", ImageURL: "https://a/img.jpg", Price: 980, Shipping: int64Ptr(350), URL: "https://a/b",
				}},
				{Source: domain.SourceYahoo, Status: domain.OutcomeSkipped},
			},
			want: []string{
				"Widget B", "ABC-123", "https://a/img.jpg",
				"", "", "",
				"980", "350", "https://a/b",
				"", "", "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			row := domain.NewComparisonRow("ABC-123", tt.outcomes)
			got := report.Record(&row)
			require.Len(t, got, len(report.Header))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	row := domain.NewComparisonRow("ABC-123", []domain.Outcome{
		{Source: domain.SourceRakuten, Status: domain.OutcomeFound, Listing: &domain.Listing{
			Name: "Widget, Deluxe", Price: 1200, URL: "https://r/a",
		}},
	})

	var buf bytes.Buffer
	require.NoError(t, report.Encode(&buf, &row))

	want := header + "\r\n" +
		`"Widget, Deluxe",ABC-123,,1200,,https://r/a,,,,,,` + "\r\n"
	assert.Equal(t, want, buf.String())
	assert.False(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}), "no BOM")
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := report.NewWriter(dir)
	ts := time.Date(2026, 3, 1, 9, 5, 7, 0, time.Local)

	row := domain.NewComparisonRow("ABC-123", nil)
	path, err := w.Write(&row, ts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "20260301_090507_result.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header+"\r\n,ABC-123,,,,,,,,,,\r\n", string(data))
}

func TestWriter_DefaultDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".", report.NewWriter("").Dir())
}

func TestWriter_WriteError(t *testing.T) {
	t.Parallel()

	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	row := domain.NewComparisonRow("ABC-123", nil)
	_, err := report.NewWriter(filepath.Join(blocker, "sub")).Write(&row, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output dir")
}
