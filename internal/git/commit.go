package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultHistoryLimit bounds how many commits a refresh reads
const DefaultHistoryLimit = 20

const (
	fieldSep = "\x1f"
	logFmt   = "--format=%H" + fieldSep + "%s" + fieldSep + "%ct"
)

// commit creates a commit from the index with the given message
func commit(ctx context.Context, r *CommandRunner, message string, opts CommitOptions) error {
	args := []string{"commit", "--quiet", "-m", message}
	if opts.All {
		args = append(args, "--all")
	}

	if _, err := r.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// commits returns the history of branchName, newest first. An unborn branch
// has no history and yields an empty slice.
func commits(ctx context.Context, r *CommandRunner, branchName string, limit int) ([]Commit, error) {
	if _, err := r.Run(ctx, "rev-parse", "--verify", "-q", "refs/heads/"+branchName); err != nil {
		return []Commit{}, nil
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	lines, err := r.RunLines(ctx, "log", "-n", strconv.Itoa(limit), logFmt, "refs/heads/"+branchName, "--")
	if err != nil {
		return nil, fmt.Errorf("failed to read history of %s: %w", branchName, err)
	}

	result := make([]Commit, 0, len(lines))
	for _, line := range lines {
		c, err := parseCommitLine(line)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

func parseCommitLine(line string) (Commit, error) {
	parts := strings.SplitN(line, fieldSep, 3)
	if len(parts) != 3 {
		return Commit{}, fmt.Errorf("unexpected log line %q", line)
	}

	secs, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("invalid commit time in %q: %w", line, err)
	}

	return Commit{
		ID:          parts[0],
		Message:     parts[1],
		CommittedAt: time.Unix(secs, 0).UTC(),
	}, nil
}
