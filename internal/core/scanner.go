package core

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akovalenko/dupefinder/internal/config"
	"github.com/akovalenko/dupefinder/internal/filesystem"
	"github.com/akovalenko/dupefinder/internal/hasher"
	"github.com/akovalenko/dupefinder/pkg/models"
)

// ProgressCallback is called to report scan progress
type ProgressCallback func(phase string, current, total int, message string)

// Scanner is the duplicate scan engine. It orchestrates the walker and
// the hasher, groups files by content hash and orders the groups.
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	walker           *filesystem.Walker
	progressCallback ProgressCallback
	mu               sync.Mutex
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		config: cfg,
		logger: logger,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// reportProgress calls the progress callback if set
func (s *Scanner) reportProgress(phase string, current, total int, message string) {
	if s.progressCallback != nil {
		s.progressCallback(phase, current, total, message)
	}
}

// hashJob is one file handed to the hashing workers, tagged with its
// traversal index so results can be re-ordered deterministically.
type hashJob struct {
	index int
	info  models.FileInfo
}

// hashResult is the outcome of hashing a single file.
type hashResult struct {
	index  int
	record models.FileRecord
	err    error
}

// Scan walks root, hashes every regular file and groups the results by
// content hash. A file that cannot be hashed is skipped with a warning;
// the only fatal errors are an invalid root, an unknown algorithm and
// context cancellation. An empty group list is a valid result, not an
// error.
func (s *Scanner) Scan(ctx context.Context, root string) (*models.ScanResult, error) {
	alg, err := hasher.ParseAlgorithm(s.config.Algorithm)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Starting scan",
		zap.String("path", root),
		zap.String("algorithm", alg.String()),
		zap.Bool("recursive", s.config.Recursive))

	result := &models.ScanResult{
		StartTime: time.Now(),
		Root:      root,
		Algorithm: alg.String(),
		Recursive: s.config.Recursive,
		Stats:     &models.ScanStatistics{},
	}

	s.walker = filesystem.NewWalker(s.config, s.logger)

	s.reportProgress("walking", 0, 0, "Listing files...")
	files, err := s.walker.ListFiles(root, s.config.Recursive)
	if err != nil {
		return nil, err
	}
	result.Stats.TotalFiles = len(files)
	s.reportProgress("walking", len(files), len(files), fmt.Sprintf("Found %d files", len(files)))

	// Optional size cap; 0 means every file is a candidate.
	maxSize := filesystem.ParseSize(s.config.MaxSize)
	if maxSize > 0 {
		kept := files[:0]
		for _, f := range files {
			if f.Size > maxSize {
				s.logger.Debug("File too large, skipping",
					zap.String("path", f.Path),
					zap.Int64("size", f.Size))
				result.Stats.SkippedFiles++
				continue
			}
			kept = append(kept, f)
		}
		files = kept
	}

	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	result.Stats.WorkersUsed = workers

	results, err := s.hashFiles(ctx, files, alg, workers)
	if err != nil {
		return nil, err
	}

	// Hashing completes in arbitrary order; restore traversal order
	// before grouping so results are reproducible.
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	for _, hr := range results {
		if hr.err != nil {
			s.logger.Warn("Failed to hash file",
				zap.String("path", files[hr.index].Path),
				zap.Error(hr.err))
			result.Stats.ReadErrors++
			result.Stats.ErrorFiles = append(result.Stats.ErrorFiles, files[hr.index].Path)
			continue
		}
		result.Records = append(result.Records, hr.record)
	}
	result.Stats.HashedFiles = len(result.Records)

	result.Groups = groupByHash(result.Records)

	// Finalize results
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.calculateStats(result)

	s.reportProgress("done", len(result.Records), len(result.Records), "Scan complete")
	s.logger.Info("Scan completed",
		zap.Duration("duration", result.Duration),
		zap.Int("files_scanned", result.Stats.HashedFiles),
		zap.Int("duplicate_groups", len(result.Groups)))

	return result, nil
}

// hashFiles hashes all files using a worker pool with progress reporting.
func (s *Scanner) hashFiles(ctx context.Context, files []models.FileInfo, alg hasher.Algorithm, workers int) ([]hashResult, error) {
	jobChan := make(chan hashJob, workers*2)
	resultsChan := make(chan hashResult, workers*2)

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go s.worker(ctx, &wg, alg, jobChan, resultsChan)
	}

	// Start results collector with progress
	var (
		collectWg sync.WaitGroup
		results   []hashResult
	)
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		processed := 0
		lastReport := time.Now()
		for hr := range resultsChan {
			s.mu.Lock()
			results = append(results, hr)
			processed++
			if time.Since(lastReport) > 100*time.Millisecond || processed%100 == 0 {
				s.reportProgress("hashing", processed, len(files), files[hr.index].Path)
				lastReport = time.Now()
			}
			s.mu.Unlock()
		}
		s.reportProgress("hashing", processed, len(files), "Hashing complete")
	}()

	// Feed jobs to workers
	var feedErr error
	for i, f := range files {
		select {
		case <-ctx.Done():
			feedErr = ctx.Err()
		case jobChan <- hashJob{index: i, info: f}:
			continue
		}
		break
	}

	// Close channels and wait
	close(jobChan)
	wg.Wait()
	close(resultsChan)
	collectWg.Wait()

	if feedErr != nil {
		return nil, fmt.Errorf("scan cancelled: %w", feedErr)
	}
	return results, nil
}

// worker hashes files from the job channel
func (s *Scanner) worker(ctx context.Context, wg *sync.WaitGroup, alg hasher.Algorithm, jobChan <-chan hashJob, resultsChan chan<- hashResult) {
	defer wg.Done()

	for job := range jobChan {
		select {
		case <-ctx.Done():
			return
		default:
			digest, err := hasher.HashFile(job.info.Path, alg)
			if err != nil {
				resultsChan <- hashResult{index: job.index, err: err}
				continue
			}
			resultsChan <- hashResult{
				index: job.index,
				record: models.FileRecord{
					Path:    job.info.Path,
					Hash:    digest,
					Size:    job.info.Size,
					ModTime: job.info.ModTime,
				},
			}
		}
	}
}

// groupByHash builds duplicate groups from records in traversal order.
// Groups keep the first-encounter order of their hash; within a group,
// paths follow traversal order, so the first path is the keeper. Only
// groups with two or more members survive. The final order is
// descending by member count with a stable sort, so equally sized
// groups stay in encounter order.
func groupByHash(records []models.FileRecord) []models.DuplicateGroup {
	byHash := make(map[string]int)
	var groups []models.DuplicateGroup

	for _, rec := range records {
		idx, ok := byHash[rec.Hash]
		if !ok {
			byHash[rec.Hash] = len(groups)
			groups = append(groups, models.DuplicateGroup{
				Hash:  rec.Hash,
				Size:  rec.Size,
				Paths: []string{rec.Path},
			})
			continue
		}
		groups[idx].Paths = append(groups[idx].Paths, rec.Path)
	}

	duplicates := groups[:0]
	for _, g := range groups {
		if len(g.Paths) >= 2 {
			duplicates = append(duplicates, g)
		}
	}

	sort.SliceStable(duplicates, func(i, j int) bool {
		return len(duplicates[i].Paths) > len(duplicates[j].Paths)
	})

	return duplicates
}

// calculateStats calculates final statistics
func (s *Scanner) calculateStats(result *models.ScanResult) {
	result.Stats.TotalBytes = result.TotalBytesScanned()

	for i := range result.Groups {
		result.Stats.DuplicateFiles += result.Groups[i].Count()
		result.Stats.WastedBytes += result.Groups[i].WastedBytes()
	}

	duration := result.Duration.Seconds()
	if duration > 0 {
		result.Stats.FilesPerSecond = float64(result.Stats.HashedFiles) / duration
	}
}
