package models

import "time"

// ScanResult contains the complete result of one scan invocation.
// It is owned by the caller and entirely replaced on the next scan;
// nothing in it persists across process runs.
type ScanResult struct {
	// Summary
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Root      string        `json:"root" yaml:"root"`
	Algorithm string        `json:"algorithm" yaml:"algorithm"`
	Recursive bool          `json:"recursive" yaml:"recursive"`

	// Every file that was hashed, in traversal order.
	Records []FileRecord `json:"records" yaml:"records"`

	// Duplicate groups ordered by descending member count; ties keep
	// traversal-encounter order.
	Groups []DuplicateGroup `json:"groups" yaml:"groups"`

	// Statistics
	Stats *ScanStatistics `json:"statistics" yaml:"statistics"`

	// Report path, set once a report file has been written.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// ScanStatistics contains detailed scan statistics.
type ScanStatistics struct {
	TotalFiles     int   `json:"total_files" yaml:"total_files"`
	HashedFiles    int   `json:"hashed_files" yaml:"hashed_files"`
	SkippedFiles   int   `json:"skipped_files" yaml:"skipped_files"`
	TotalBytes     int64 `json:"total_bytes" yaml:"total_bytes"`
	DuplicateFiles int   `json:"duplicate_files" yaml:"duplicate_files"`
	WastedBytes    int64 `json:"wasted_bytes" yaml:"wasted_bytes"`

	// Errors
	ReadErrors int      `json:"read_errors" yaml:"read_errors"`
	ErrorFiles []string `json:"error_files,omitempty" yaml:"error_files,omitempty"`

	// Performance
	FilesPerSecond float64 `json:"files_per_second" yaml:"files_per_second"`
	WorkersUsed    int     `json:"workers_used" yaml:"workers_used"`
}

// TotalFilesScanned returns the number of files that were hashed.
func (r *ScanResult) TotalFilesScanned() int {
	return len(r.Records)
}

// TotalDuplicateGroups returns the number of duplicate groups found.
func (r *ScanResult) TotalDuplicateGroups() int {
	return len(r.Groups)
}

// TotalBytesScanned returns the sum of the sizes of all scanned files.
func (r *ScanResult) TotalBytesScanned() int64 {
	var total int64
	for i := range r.Records {
		total += r.Records[i].Size
	}
	return total
}
