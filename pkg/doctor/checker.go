package doctor

import (
	"context"
	"sync"

	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata"
)

// Checker provides dependency checking functionality.
type Checker struct {
	executor CommandExecutor
	fetcher  metadata.Fetcher
}

// NewChecker creates a new Checker with the real command executor.
func NewChecker() *Checker {
	return &Checker{
		executor: &RealExecutor{},
	}
}

// NewCheckerWithExecutor creates a new Checker with a custom executor (for testing).
func NewCheckerWithExecutor(exec CommandExecutor) *Checker {
	return &Checker{
		executor: exec,
	}
}

// SetFetcher sets the metadata client used by the instance check.
func (c *Checker) SetFetcher(f metadata.Fetcher) {
	c.fetcher = f
}

// CheckGroups runs the given groups concurrently, preserving their order.
func (c *Checker) CheckGroups(ctx context.Context, groups []CheckGroup) []CheckGroup {
	result := make([]CheckGroup, len(groups))
	var wg sync.WaitGroup

	for i, group := range groups {
		wg.Add(1)
		go func(idx int, g CheckGroup) {
			defer wg.Done()
			result[idx] = c.CheckGroup(ctx, g.ID)
		}(i, group)
	}

	wg.Wait()
	return result
}

// CheckGroup runs all checks for a specific group.
func (c *Checker) CheckGroup(ctx context.Context, groupID string) CheckGroup {
	def, ok := GetGroupDefinition(groupID)
	if !ok {
		return CheckGroup{
			ID:   groupID,
			Name: "Unknown",
		}
	}

	group := CheckGroup{
		ID:          groupID,
		Name:        def.Name,
		Description: def.Description,
		Platform:    def.Platform,
	}

	for _, checkID := range def.CheckIDs {
		group.Checks = append(group.Checks, c.runCheck(ctx, checkID))
	}

	return group
}

func (c *Checker) runCheck(ctx context.Context, checkID string) Check {
	switch checkID {
	case IDBash:
		return CheckBash(c.executor)
	case IDNohup:
		return CheckNohup(c.executor)
	case IDSystemctl:
		return CheckSystemctl(c.executor)
	case IDPython3:
		return CheckPython3(c.executor)
	case IDPip3:
		return CheckPip3(c.executor)
	case IDMetadata:
		return CheckMetadata(ctx, c.fetcher)
	default:
		return Check{
			ID:      checkID,
			Name:    checkID,
			Status:  StatusError,
			Message: "unknown check",
		}
	}
}

// Summary represents an overall health summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func GetSummary(groups []CheckGroup) Summary {
	var summary Summary

	for _, group := range groups {
		for _, check := range group.Checks {
			summary.Total++
			switch check.Status {
			case StatusOK:
				summary.OK++
			case StatusMissing:
				summary.Missing++
			case StatusWarning:
				summary.Warnings++
			case StatusError:
				summary.Errors++
			}
		}
	}

	return summary
}

// HasIssues returns true if any check is missing or failed.
func HasIssues(groups []CheckGroup) bool {
	summary := GetSummary(groups)
	return summary.Missing > 0 || summary.Errors > 0
}
