/*
export.go - CSV archive artifact

One file per archived date, named report_<date>.csv, written outside the
transactional store. Format matches what back-office tooling expects:

  Product,Category,Qty Sold,Revenue
  Cotton Shirt,Shirts,2,1000

  TOTAL,,,1000
*/
package pos

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// CSVExporter writes daily archive artifacts into a directory.
type CSVExporter struct {
	Dir string
}

// NewCSVExporter creates an exporter rooted at dir. The directory is
// created on first export.
func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{Dir: dir}
}

// Export writes the per-product breakdown and grand total for the day.
func (e *CSVExporter) Export(day Date, lines []ReportLine, total decimal.Decimal) error {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	path := e.Path(day)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}

	w := csv.NewWriter(f)
	records := [][]string{{"Product", "Category", "Qty Sold", "Revenue"}}
	for _, line := range lines {
		records = append(records, []string{
			line.ProductName,
			line.Category,
			fmt.Sprintf("%d", line.QuantitySold),
			line.Revenue.String(),
		})
	}
	records = append(records,
		[]string{""},
		[]string{"TOTAL", "", "", total.String()},
	)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write archive file: %w", err)
	}

	return f.Close()
}

// Path returns the deterministic artifact location for a date.
func (e *CSVExporter) Path(day Date) string {
	return filepath.Join(e.Dir, fmt.Sprintf("report_%s.csv", day))
}
