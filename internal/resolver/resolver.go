package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/akovalenko/dupefinder/pkg/models"
)

// PolicyFunc chooses the resolution policy for one duplicate group. The
// CLI shell supplies it, typically backed by a flag value or by an
// interactive prompt; the resolver itself never blocks on user input.
type PolicyFunc func(group models.DuplicateGroup) models.Policy

// Resolver applies resolution policies to duplicate groups.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a new resolver instance
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve applies a policy to every duplicate of a group. The keeper
// (first path) is never touched. Duplicates are processed strictly in
// order so the collision-avoiding naming counter stays deterministic,
// and a failure on one file never stops the remaining files.
func (r *Resolver) Resolve(group models.DuplicateGroup, policy models.Policy) []models.Outcome {
	if err := policy.Validate(); err != nil {
		outcomes := make([]models.Outcome, 0, len(group.Duplicates()))
		for _, path := range group.Duplicates() {
			outcomes = append(outcomes, models.Outcome{Path: path, Action: policy.Action, Err: err})
		}
		return outcomes
	}

	outcomes := make([]models.Outcome, 0, len(group.Duplicates()))
	for _, path := range group.Duplicates() {
		var outcome models.Outcome
		switch policy.Action {
		case models.ActionDelete:
			outcome = r.deleteDuplicate(path)
		case models.ActionMove:
			outcome = r.moveDuplicate(path, policy.TargetDir)
		case models.ActionHardLink:
			outcome = r.linkDuplicate(group.Keeper(), path, policy.TargetDir)
		default:
			outcome = models.Outcome{Path: path, Action: models.ActionReport}
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// ResolveAll resolves every group, asking choose for the policy once per
// group. Groups never share paths, so their outcomes are independent.
func (r *Resolver) ResolveAll(groups []models.DuplicateGroup, choose PolicyFunc) [][]models.Outcome {
	all := make([][]models.Outcome, 0, len(groups))
	for _, group := range groups {
		all = append(all, r.Resolve(group, choose(group)))
	}
	return all
}

// deleteDuplicate removes a duplicate file.
func (r *Resolver) deleteDuplicate(path string) models.Outcome {
	if err := os.Remove(path); err != nil {
		r.logger.Warn("Failed to delete duplicate", zap.String("path", path), zap.Error(err))
		return models.Outcome{Path: path, Action: models.ActionDelete, Err: fmt.Errorf("delete %s: %w", path, err)}
	}

	r.logger.Info("Deleted duplicate", zap.String("path", path))
	return models.Outcome{Path: path, Action: models.ActionDelete}
}

// moveDuplicate relocates a duplicate into targetDir, avoiding name
// collisions deterministically.
func (r *Resolver) moveDuplicate(path, targetDir string) models.Outcome {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return models.Outcome{Path: path, Action: models.ActionMove, Err: fmt.Errorf("move %s: %w", path, err)}
	}

	dest := uniqueDestination(targetDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		r.logger.Warn("Failed to move duplicate",
			zap.String("path", path),
			zap.String("dest", dest),
			zap.Error(err))
		return models.Outcome{Path: path, Action: models.ActionMove, Err: fmt.Errorf("move %s: %w", path, err)}
	}

	r.logger.Info("Moved duplicate", zap.String("path", path), zap.String("dest", dest))
	return models.Outcome{Path: path, Action: models.ActionMove, NewPath: dest}
}

// linkDuplicate creates a hard link to the keeper in targetDir, then
// removes the duplicate. The delete only happens after the link
// succeeded; a duplicate is never lost without a replacement link.
func (r *Resolver) linkDuplicate(keeper, path, targetDir string) models.Outcome {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return models.Outcome{Path: path, Action: models.ActionHardLink, Err: fmt.Errorf("link %s: %w", path, err)}
	}

	linkPath := filepath.Join(targetDir, filepath.Base(path))
	if err := os.Link(keeper, linkPath); err != nil {
		r.logger.Warn("Failed to create hard link",
			zap.String("keeper", keeper),
			zap.String("link", linkPath),
			zap.Error(err))
		return models.Outcome{Path: path, Action: models.ActionHardLink, Err: fmt.Errorf("link %s: %w", linkPath, err)}
	}

	if err := os.Remove(path); err != nil {
		r.logger.Warn("Linked but failed to delete duplicate", zap.String("path", path), zap.Error(err))
		return models.Outcome{Path: path, Action: models.ActionHardLink, NewPath: linkPath, Err: fmt.Errorf("delete %s: %w", path, err)}
	}

	r.logger.Info("Replaced duplicate with hard link",
		zap.String("path", path),
		zap.String("link", linkPath))
	return models.Outcome{Path: path, Action: models.ActionHardLink, NewPath: linkPath}
}

// uniqueDestination returns dir/name, or on collision the first free
// name of the form stem_1.ext, stem_2.ext, and so on.
func uniqueDestination(dir, name string) string {
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return dest
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
