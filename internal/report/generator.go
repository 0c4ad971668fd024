package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/akovalenko/dupefinder/internal/config"
	"github.com/akovalenko/dupefinder/pkg/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[38;5;245m"
)

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// Generator generates scan reports in various formats
type Generator struct {
	config *config.Config
	logger *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) *Generator {
	return &Generator{
		config: cfg,
		logger: logger,
	}
}

// Generate generates a report based on scan results. With no format
// configured the summary is printed to the console; otherwise a report
// file is written and its absolute path returned.
func (g *Generator) Generate(result *models.ScanResult) (string, error) {
	format := g.config.ReportFormat
	outputFile := g.config.OutputFile

	// If no format specified, print to console
	if format == "" {
		g.printConsole(result)
		return "", nil
	}

	// Generate default filename if not specified
	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		switch format {
		case "json":
			outputFile = fmt.Sprintf("DUPEFINDER-REPORT-%s.json", timestamp)
		case "yaml", "yml":
			outputFile = fmt.Sprintf("DUPEFINDER-REPORT-%s.yaml", timestamp)
		case "txt", "text":
			outputFile = fmt.Sprintf("DUPEFINDER-REPORT-%s.txt", timestamp)
		default:
			return "", fmt.Errorf("unknown report format: %s", format)
		}
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var err error
	switch format {
	case "json":
		err = g.generateJSON(result, outputFile)
	case "yaml", "yml":
		err = g.generateYAML(result, outputFile)
	case "txt", "text":
		err = g.generateText(result, outputFile)
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	// Get absolute path
	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

// printConsole prints results to stdout with colors
func (g *Generator) printConsole(result *models.ScanResult) {
	fmt.Println()
	fmt.Printf("%s%sSCAN COMPLETE%s\n", colorBold, colorCyan, colorReset)
	fmt.Println()

	fmt.Printf("  %sPath:%s       %s\n", colorGray, colorReset, result.Root)
	fmt.Printf("  %sAlgorithm:%s  %s\n", colorGray, colorReset, result.Algorithm)
	fmt.Printf("  %sFiles:%s      %d\n", colorGray, colorReset, result.TotalFilesScanned())
	fmt.Printf("  %sScanned:%s    %s\n", colorGray, colorReset, humanize.IBytes(uint64(result.TotalBytesScanned())))
	fmt.Printf("  %sDuration:%s   %s\n", colorGray, colorReset, FormatDuration(result.Duration))
	if result.Stats != nil && result.Stats.ReadErrors > 0 {
		fmt.Printf("  %sSkipped:%s    %s%d unreadable%s\n", colorGray, colorReset, colorYellow, result.Stats.ReadErrors, colorReset)
	}
	fmt.Println()

	if len(result.Groups) == 0 {
		fmt.Printf("  %s%s✓ No duplicates found%s\n", colorBold, colorGreen, colorReset)
		fmt.Println()
		return
	}

	wasted := int64(0)
	if result.Stats != nil {
		wasted = result.Stats.WastedBytes
	}
	fmt.Printf("  %s%s⚠ DUPLICATE GROUPS: %d%s %s(%s reclaimable)%s\n",
		colorBold, colorRed, len(result.Groups), colorReset,
		colorGray, humanize.IBytes(uint64(wasted)), colorReset)
	fmt.Println()

	for i, group := range result.Groups {
		fmt.Printf("  %s[%d]%s %d files × %s %s%s%s\n",
			colorBold, i+1, colorReset,
			group.Count(), humanize.IBytes(uint64(group.Size)),
			colorDim, shortHash(group.Hash), colorReset)
		for j, path := range group.Paths {
			marker := " "
			if j == 0 {
				marker = colorGreen + "keep" + colorReset
			}
			fmt.Printf("      %s %s\n", marker, path)
		}
		fmt.Println()
	}
}

// shortHash truncates a digest for console display.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
