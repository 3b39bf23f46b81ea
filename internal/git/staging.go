package git

import (
	"context"
	"fmt"
	"strings"
)

// add stages pathspec. Ignored paths are only included with opts.Force.
func add(ctx context.Context, r *CommandRunner, pathspec string, opts AddOptions) error {
	args := []string{"add", "--all"}
	if opts.Force {
		args = append(args, "--force")
	}
	args = append(args, "--", pathspec)

	if _, err := r.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage %s: %w", pathspec, err)
	}
	return nil
}

// remove removes pathspec from the index, and from disk unless opts.Cached
func remove(ctx context.Context, r *CommandRunner, pathspec string, opts RemoveOptions) error {
	args := append([]string{"rm"}, FlagArgs(map[string]any{
		"r":              opts.Recursive,
		"cached":         opts.Cached,
		"force":          opts.Force,
		"ignore-unmatch": opts.IgnoreUnmatch,
		"quiet":          true,
	})...)
	args = append(args, "--", pathspec)

	if _, err := r.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to remove %s: %w", pathspec, err)
	}
	return nil
}

// stagedFiles returns the paths in the index that differ from HEAD
func stagedFiles(ctx context.Context, r *CommandRunner) (map[string]FileStatus, error) {
	output, err := r.RunRaw(ctx, "diff", "--cached", "--name-status", "--no-renames", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to check staged changes: %w", err)
	}
	return parseNameStatus(output), nil
}

// parseNameStatus parses NUL separated `--name-status -z` output:
// "<code>\x00<path>\x00<code>\x00<path>\x00..."
func parseNameStatus(output string) map[string]FileStatus {
	files := map[string]FileStatus{}
	fields := strings.Split(output, "\x00")
	for i := 0; i+1 < len(fields); i += 2 {
		code := strings.TrimSpace(fields[i])
		path := fields[i+1]
		if code == "" || path == "" {
			continue
		}
		files[path] = FileStatus{Type: ChangeType(code[:1])}
	}
	return files
}
