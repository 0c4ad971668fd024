package models

import (
	"time"
)

// FileRecord describes a single regular file processed during a scan.
// Records are immutable once created and belong to the ScanResult of
// the scan that produced them; a new scan replaces them wholesale.
type FileRecord struct {
	Path    string    `json:"path" yaml:"path"`
	Hash    string    `json:"hash" yaml:"hash"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// FileInfo contains basic file information gathered during traversal,
// before the file content has been hashed.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}
