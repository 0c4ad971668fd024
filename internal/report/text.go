package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/akovalenko/dupefinder/pkg/models"
)

// generateText generates a text report
func (g *Generator) generateText(result *models.ScanResult, outputFile string) error {
	var sb strings.Builder

	// Header
	sb.WriteString("=" + strings.Repeat("=", 78) + "\n")
	sb.WriteString("  DUPEFINDER SCAN REPORT\n")
	sb.WriteString("=" + strings.Repeat("=", 78) + "\n\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Scan Path:        %s\n", result.Root))
	sb.WriteString(fmt.Sprintf("Algorithm:        %s\n", result.Algorithm))
	sb.WriteString(fmt.Sprintf("Recursive:        %v\n", result.Recursive))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", result.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", result.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(result.Duration)))
	sb.WriteString(fmt.Sprintf("Files Scanned:    %d\n", result.TotalFilesScanned()))
	sb.WriteString(fmt.Sprintf("Bytes Scanned:    %s\n", humanize.IBytes(uint64(result.TotalBytesScanned()))))
	sb.WriteString(fmt.Sprintf("DUPLICATE GROUPS: %d\n", result.TotalDuplicateGroups()))
	if result.Stats != nil {
		sb.WriteString(fmt.Sprintf("Duplicate Files:  %d\n", result.Stats.DuplicateFiles))
		sb.WriteString(fmt.Sprintf("Reclaimable:      %s\n", humanize.IBytes(uint64(result.Stats.WastedBytes))))
		if result.Stats.ReadErrors > 0 {
			sb.WriteString(fmt.Sprintf("Read Errors:      %d\n", result.Stats.ReadErrors))
		}
	}
	sb.WriteString("\n")

	// Groups, largest first
	if len(result.Groups) > 0 {
		sb.WriteString("DUPLICATE GROUPS\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for i, group := range result.Groups {
			sb.WriteString(fmt.Sprintf("[%d] %d files, %s each, hash %s\n",
				i+1, group.Count(), humanize.IBytes(uint64(group.Size)), group.Hash))
			for j, path := range group.Paths {
				if j == 0 {
					sb.WriteString(fmt.Sprintf("    keep  %s\n", path))
				} else {
					sb.WriteString(fmt.Sprintf("          %s\n", path))
				}
			}
			sb.WriteString("\n")
		}
	}

	// Unreadable files
	if result.Stats != nil && len(result.Stats.ErrorFiles) > 0 {
		sb.WriteString("UNREADABLE FILES\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, path := range result.Stats.ErrorFiles {
			sb.WriteString(fmt.Sprintf("  %s\n", path))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}
