package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/internal/pipeline"
)

const (
	Title = "Chemical Equipment Dataset Report"

	inch        = 72.0
	margin      = 0.75 * inch
	placeholder = "-"
)

// RenderPDF writes the dataset report to w. A nil summary renders every
// summary value as a placeholder.
func RenderPDF(w io.Writer, d model.Dataset, summary *model.AnalyticsResult) error {
	pdf := buildPDF(d, summary)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// page tracks the text baseline measured from the top edge, like a canvas
// cursor moving down the page.
type page struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	y      float64
	height float64
}

func (p *page) text(s string, advance float64) {
	p.pdf.Text(margin, p.y, p.tr(s))
	p.y += advance
}

func (p *page) font(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

func (p *page) breakIfFull() {
	if p.y > p.height-margin {
		p.pdf.AddPage()
		p.y = margin
		p.font("", 11)
	}
}

func buildPDF(d model.Dataset, summary *model.AnalyticsResult) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(Title, false)
	pdf.SetCreator("go-equipment-analytics", false)
	pdf.AddPage()
	_, height := pdf.GetPageSize()

	p := &page{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		y:      margin,
		height: height,
	}

	p.font("B", 16)
	p.text(Title, 0.5*inch)

	p.font("", 11)
	p.text("Filename: "+d.Filename, 0.25*inch)
	p.text("Uploaded: "+d.CreatedAt.UTC().Format(time.RFC3339), 0.25*inch)
	p.text(fmt.Sprintf("Rows: %s  Columns: %s", optionalInt(d.RowCount), optionalInt(d.ColumnCount)), 0.5*inch)

	p.font("B", 12)
	p.text("Summary", 0.3*inch)
	p.font("", 11)

	total := placeholder
	var dist map[string]int
	if summary != nil {
		total = strconv.Itoa(summary.TotalCount)
		dist = summary.TypeDistribution
	}
	p.text("Total equipment count: "+total, 0.25*inch)
	for _, field := range pipeline.NumericColumns {
		val := placeholder
		if summary != nil {
			if v, ok := summary.Average(field).Get(); ok {
				val = formatFloat(v)
			}
		}
		p.text(fmt.Sprintf("Average %s: %s", field, val), 0.25*inch)
	}

	p.y += 0.25 * inch
	p.font("B", 12)
	p.text("Equipment Type Distribution", 0.3*inch)
	p.font("", 11)
	for _, tc := range SortedDistribution(dist) {
		p.text(fmt.Sprintf("%s: %d", tc.Label, tc.Count), 0.22*inch)
		p.breakIfFull()
	}
	return pdf
}

func optionalInt(n *int) string {
	if n == nil {
		return placeholder
	}
	return strconv.Itoa(*n)
}
