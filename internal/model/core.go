package model

import "time"

// Status is the processing state of an uploaded dataset
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// Dataset is one uploaded CSV file and its processing outcome.
// RowCount and ColumnCount are set only when Status is ready.
type Dataset struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Filename    string    `json:"filename"`
	Status      Status    `json:"status"`
	RowCount    *int      `json:"row_count"`
	ColumnCount *int      `json:"column_count"`
	CreatedAt   time.Time `json:"uploaded_at"`
	LastError   string    `json:"last_error"`
	FileKey     string    `json:"-"` // raw CSV artifact
	ReportKey   string    `json:"-"` // generated PDF artifact, empty until rendered
}

// Artifacts returns the storage keys owned by the dataset.
func (d Dataset) Artifacts() []string {
	keys := make([]string, 0, 2)
	if d.FileKey != "" {
		keys = append(keys, d.FileKey)
	}
	if d.ReportKey != "" {
		keys = append(keys, d.ReportKey)
	}
	return keys
}

// Summary is a computed analytics payload for a dataset. Readers use the
// most recently generated one.
type Summary struct {
	ID          string          `json:"id"`
	DatasetID   string          `json:"dataset"`
	UserID      string          `json:"-"`
	Analytics   AnalyticsResult `json:"summary_json"`
	GeneratedAt time.Time       `json:"generated_at"`
}
