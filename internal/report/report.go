// Package report writes the comparison row to a CSV file.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	domain "github.com/donaldgifford/pricediff/pkg/types"
)

const (
	fileTimeLayout = "20060102_150405"
	fileSuffix     = "_result.csv"
)

// Header is the fixed report header.
var Header = []string{
	"商品名", "型番", "商品画像URL",
	"楽天価格", "楽天送料", "楽天URL",
	"Amazon価格", "Amazon送料", "AmazonURL",
	"Yahoo価格", "Yahoo送料", "YahooURL",
}

// Writer persists a ComparisonRow as a one-row CSV report.
type Writer struct {
	dir string
}

// NewWriter returns a Writer that creates reports in dir. An empty dir
// means the current directory.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// FileName returns the report file name for a run started at ts.
func FileName(ts time.Time) string {
	return ts.Format(fileTimeLayout) + fileSuffix
}

// Write creates the report file for row and returns its path. The output
// directory is created if missing; an existing file with the same name is
// truncated.
func (w *Writer) Write(row *domain.ComparisonRow, ts time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(ts))
	f, err := os.Create(path) //nolint:gosec // path built from configured dir
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}

	if err := Encode(f, row); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing report file: %w", err)
	}
	return path, nil
}

// Encode writes the header and the single data row to out.
func Encode(out io.Writer, row *domain.ComparisonRow) error {
	cw := csv.NewWriter(out)
	cw.UseCRLF = true

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	if err := cw.Write(Record(row)); err != nil {
		return fmt.Errorf("writing report row: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

// Record flattens row into the column order of Header. Absent marketplaces
// and unknown shipping become empty cells.
func Record(row *domain.ComparisonRow) []string {
	rec := make([]string, 0, len(Header))
	rec = append(rec, row.Name, row.SearchTerm, row.ImageURL)
	for _, src := range domain.Sources {
		l := row.Offer(src)
		rec = append(rec, l.PriceString(), l.ShippingString(), url(l))
	}
	return rec
}

func url(l *domain.Listing) string {
	if l == nil {
		return ""
	}
	return l.URL
}
