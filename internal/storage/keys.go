package storage

import (
	"fmt"
	"path"
	"time"
)

// DatasetKey lays raw uploads out by day: datasets/2006/01/02/<id>_<name>.
func DatasetKey(at time.Time, id, filename string) string {
	return path.Join("datasets", at.Format("2006/01/02"), fmt.Sprintf("%s_%s", id, path.Base(filename)))
}

// ReportKey lays generated reports out by day: reports/2006/01/02/dataset_<id>.pdf.
func ReportKey(at time.Time, datasetID string) string {
	return path.Join("reports", at.Format("2006/01/02"), ReportFilename(datasetID))
}

// ReportFilename is the download name of a dataset's PDF report.
func ReportFilename(datasetID string) string {
	return fmt.Sprintf("dataset_%s.pdf", datasetID)
}
