package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/akovalenko/dupefinder/internal/config"
	"github.com/akovalenko/dupefinder/internal/core"
	"github.com/akovalenko/dupefinder/internal/report"
	"github.com/akovalenko/dupefinder/internal/resolver"
	"github.com/akovalenko/dupefinder/pkg/models"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[38;5;220m"
	colorGray   = "\033[38;5;245m"
	colorCyan   = "\033[36m"
)

var (
	version = "0.1.0"
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dupefinder",
		Short: "Dupefinder - Duplicate File Finder",
		Long: `Locates duplicate files in a directory tree by content hash and resolves
duplicate groups by reporting, deleting, moving, or hard-linking them.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			printBanner()
			cmd.Help()
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(algorithmsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printBanner prints the startup banner
func printBanner() {
	fmt.Println()
	fmt.Printf("%s", colorCyan)
	fmt.Println("████▄  ██  ██ ████▄  ████▀ ████▀ ██ ███  ██ ████▄  ████▀ ████▄")
	fmt.Println("██  ██ ██  ██ ██  ██ ██▄   ██▄   ██ ██ ▀▄██ ██  ██ ██▄   ██▄▄▀")
	fmt.Println("████▀  ▀████▀ ██▀    ▀███  ██    ██ ██   ██ ████▀  ▀███  ██  █")
	fmt.Printf("%s", colorReset)
	fmt.Println()
	fmt.Printf("%sDuplicate File Finder v%s%s\n", colorGray, version, colorReset)
	fmt.Println()
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		algorithm    string
		recursive    bool
		workers      int
		exclude      []string
		maxSize      string
		reportFormat string
		outputFile   string
		action       string
		targetDir    string
		interactive  bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory for duplicate files",
		Long:  `Hash every regular file under a directory, group files with identical content and resolve the groups under the chosen policy.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			// Validate flags before doing anything
			if err := validateFlags(algorithm, reportFormat, action); err != nil {
				fmt.Printf("\n  %s✗ Invalid parameter:%s %s\n\n", colorRed, colorReset, err.Error())
				return err
			}

			// Initialize logger based on verbose flag
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				// Silent logger - only errors
				cfg := zap.Config{
					Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
					Encoding:         "json",
					OutputPaths:      []string{"stderr"},
					ErrorOutputPaths: []string{"stderr"},
					EncoderConfig:    zap.NewProductionEncoderConfig(),
				}
				logger, err = cfg.Build()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			defer logger.Sync()

			// Load configuration
			cfg, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			// Override config with CLI flags
			if algorithm != "" {
				cfg.Algorithm = algorithm
			}
			if cmd.Flags().Changed("recursive") {
				cfg.Recursive = recursive
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if len(exclude) > 0 {
				cfg.Exclude = exclude
			}
			if maxSize != "" {
				cfg.MaxSize = maxSize
			}
			if reportFormat != "" {
				cfg.ReportFormat = reportFormat
			}
			if outputFile != "" {
				cfg.OutputFile = outputFile
			}
			if action != "" {
				cfg.Action = action
			}
			if targetDir != "" {
				cfg.TargetDir = targetDir
			}

			printScanHeader(path, cfg)

			// Create scanner with progress rendering
			scanner := core.NewScanner(cfg, logger)
			lastPhase := ""
			scanner.SetProgressCallback(func(phase string, current, total int, message string) {
				if lastPhase == phase && phase != "walking" {
					fmt.Print("\033[1A\033[K")
				}
				lastPhase = phase

				switch phase {
				case "walking":
					if current == 0 && total == 0 {
						fmt.Printf("\n  %sListing files...%s\n", colorGray, colorReset)
					} else {
						fmt.Printf("  %sFiles:%s     %s\n", colorGray, colorReset, message)
					}
				case "hashing":
					if total > 0 {
						pct := float64(current) / float64(total) * 100
						barWidth := 30
						filled := int(float64(barWidth) * float64(current) / float64(total))
						bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
						fmt.Printf("  %sHashing:%s   [%s%s%s] %s%.1f%%%s (%d/%d)\n",
							colorGray, colorReset, colorCyan, bar, colorReset, colorCyan, pct, colorReset, current, total)
					}
				}
			})

			// Run scan
			result, err := scanner.Scan(context.Background(), path)
			if err != nil {
				logger.Error("Scan failed", zap.Error(err))
				return err
			}

			// Report
			gen := report.NewGenerator(cfg, logger)
			reportPath, err := gen.Generate(result)
			if err != nil {
				logger.Error("Failed to generate report", zap.Error(err))
				return err
			}
			if reportPath != "" {
				result.ReportPath = reportPath
				fmt.Printf("  %sReport:%s    %s%s%s\n\n", colorGray, colorReset, colorCyan, reportPath, colorReset)
			}

			// Resolution
			if len(result.Groups) == 0 {
				return nil
			}

			res := resolver.NewResolver(logger)
			var choose resolver.PolicyFunc
			if interactive {
				choose = promptPolicy
			} else {
				policy, err := cfg.Policy()
				if err != nil {
					fmt.Printf("  %s✗ Invalid policy:%s %s\n\n", colorRed, colorReset, err.Error())
					return err
				}
				if policy.Action == models.ActionReport {
					return nil
				}
				choose = func(models.DuplicateGroup) models.Policy { return policy }
			}

			for _, outcomes := range res.ResolveAll(result.Groups, choose) {
				printOutcomes(outcomes)
			}

			return nil
		},
	}

	// Flags
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Hash algorithm: md5, sha256, xxh3 (default: sha256)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "Descend into subdirectories")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of hashing goroutines (default: CPU cores * 2)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Directory names to exclude (comma-separated)")
	cmd.Flags().StringVar(&maxSize, "max-size", "", "Skip files larger than this, e.g. 100M (default: unlimited)")
	cmd.Flags().StringVar(&reportFormat, "report", "", "Report format: text, json, yaml (default: console output)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Report output file path")
	cmd.Flags().StringVar(&action, "action", "", "Resolution: report, delete, move, link (default: report)")
	cmd.Flags().StringVarP(&targetDir, "target", "t", "", "Target directory for move/link")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose a resolution per duplicate group")

	return cmd
}

// printScanHeader prints the scan parameters
func printScanHeader(path string, cfg *config.Config) {
	printBanner()
	fmt.Printf("  %sScanning:%s  %s\n", colorGray, colorReset, path)
	fmt.Printf("  %sHash:%s      %s\n", colorGray, colorReset, cfg.Algorithm)
	fmt.Printf("  %sRecursive:%s %v\n", colorGray, colorReset, cfg.Recursive)
	fmt.Println()
}

// promptPolicy asks the user what to do with one duplicate group.
func promptPolicy(group models.DuplicateGroup) models.Policy {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("\n  %sGroup of %d identical files%s %s(%s each)%s\n",
		colorBold, group.Count(), colorReset,
		colorGray, humanize.IBytes(uint64(group.Size)), colorReset)
	for i, path := range group.Paths {
		marker := "   "
		if i == 0 {
			marker = colorGreen + "  *" + colorReset
		}
		fmt.Printf("  %s %d. %s\n", marker, i+1, path)
	}
	fmt.Println()
	fmt.Printf("  %s[1]%s Delete duplicates (keep first)\n", colorCyan, colorReset)
	fmt.Printf("  %s[2]%s Move duplicates to a directory\n", colorCyan, colorReset)
	fmt.Printf("  %s[3]%s Replace duplicates with hard links\n", colorCyan, colorReset)
	fmt.Printf("  %s[4]%s Skip this group\n", colorCyan, colorReset)
	fmt.Printf("  %sChoice [1-4]%s (or press Enter to skip): ", colorBold, colorReset)

	input, err := reader.ReadString('\n')
	if err != nil {
		return models.Policy{Action: models.ActionReport}
	}

	switch strings.TrimSpace(input) {
	case "1":
		return models.Policy{Action: models.ActionDelete}
	case "2":
		return models.Policy{Action: models.ActionMove, TargetDir: promptTargetDir(reader)}
	case "3":
		return models.Policy{Action: models.ActionHardLink, TargetDir: promptTargetDir(reader)}
	default:
		fmt.Printf("  %sSkipping this group.%s\n", colorGray, colorReset)
		return models.Policy{Action: models.ActionReport}
	}
}

// promptTargetDir reads the destination directory for move/link.
func promptTargetDir(reader *bufio.Reader) string {
	fmt.Printf("  %sTarget directory:%s ", colorBold, colorReset)
	input, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(input)
}

// printOutcomes prints per-file resolution results.
func printOutcomes(outcomes []models.Outcome) {
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			fmt.Printf("  %s✗%s %s: %v\n", colorRed, colorReset, o.Path, o.Err)
		case o.Action == models.ActionReport:
			// nothing was done
		case o.NewPath != "":
			fmt.Printf("  %s✓%s %s %s→%s %s\n", colorGreen, colorReset, o.Path, colorGray, colorReset, o.NewPath)
		default:
			fmt.Printf("  %s✓%s %s %s(%s)%s\n", colorGreen, colorReset, o.Path, colorGray, o.Action, colorReset)
		}
	}
}

// validateFlags validates CLI flag values
func validateFlags(algorithm, reportFormat, action string) error {
	if algorithm != "" {
		validAlgorithms := []string{"md5", "sha256", "xxh3"}
		if !contains(validAlgorithms, algorithm) {
			return fmt.Errorf("--algorithm must be one of: %s (got: %s)", strings.Join(validAlgorithms, ", "), algorithm)
		}
	}

	if reportFormat != "" {
		validFormats := []string{"text", "txt", "json", "yaml", "yml"}
		if !contains(validFormats, reportFormat) {
			return fmt.Errorf("--report must be one of: %s (got: %s)", strings.Join(validFormats, ", "), reportFormat)
		}
	}

	if action != "" {
		validActions := []string{"report", "delete", "move", "link"}
		if !contains(validActions, action) {
			return fmt.Errorf("--action must be one of: %s (got: %s)", strings.Join(validActions, ", "), action)
		}
	}

	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// algorithmsCmd creates the algorithms command
func algorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported hash algorithms",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("SUPPORTED HASH ALGORITHMS:")
			fmt.Println("  sha256    Strong cryptographic digest (default)")
			fmt.Println("  md5       Legacy cryptographic digest, faster than sha256")
			fmt.Println("  xxh3      Non-cryptographic digest, fastest option")
			fmt.Println("")
			fmt.Println("Duplicates are detected by digest equality alone; no byte-level")
			fmt.Println("verification follows. The collision probability is negligible in")
			fmt.Println("practice but nonzero, in particular for xxh3.")
			fmt.Println("")
			fmt.Println("EXAMPLES:")
			fmt.Println("  dupefinder scan ~/Downloads                      # report only")
			fmt.Println("  dupefinder scan -a xxh3 ~/Downloads              # fast scan")
			fmt.Println("  dupefinder scan --action=delete ~/Downloads     # delete duplicates")
			fmt.Println("  dupefinder scan --action=move -t /tmp/dupes ~/x # move them aside")
			fmt.Println("  dupefinder scan -i ~/Downloads                  # decide per group")
		},
	}
}
