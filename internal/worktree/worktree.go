// Package worktree creates, lists, and removes throwaway git-worktree
// branch checkouts for a session, the same exec.Command-against-git
// technique as the teacher's internal/sourcecontrol package but aimed at
// git-worktree plumbing instead of status/commit/push.
package worktree

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/thurerr"
)

// DirName is the fixed location under a repository where every worktree
// this process creates is checked out, mirroring the teacher's own
// convention of nesting derived state under the repo's .git directory.
const DirName = "thurbox-worktrees"

// SanitizeBranch turns a branch name into a single filesystem path segment
// by replacing '/' with '-', the rule named in §4.2.
func SanitizeBranch(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// Path computes the deterministic worktree path for branch under repoPath:
// <repo>/.git/thurbox-worktrees/<sanitized-branch>. Returns an error if the
// sanitized name would escape the worktree root (e.g. "..").
func Path(repoPath, branch string) (string, error) {
	sanitized := SanitizeBranch(branch)
	root := filepath.Join(repoPath, ".git", DirName)
	full := filepath.Join(root, sanitized)

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", thurerr.ValidationFailed("branch", "branch name escapes the worktree root")
	}
	return full, nil
}

// ListBranches returns the repository's local branch names in the order
// git itself reports them, the same `git branch --format` call as the
// teacher's sourcecontrol.Panel.GetLocalBranches.
func ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "branch", "--format=%(refname:short)")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return nil, thurerr.WorktreeConflict(repoPath, "git branch failed", err)
	}

	var branches []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// Create runs `git worktree add` to check newBranch out from baseBranch
// into the deterministic path under repoPath, creating the worktree
// directory tree on demand.
func Create(ctx context.Context, repoPath, baseBranch, newBranch string) (string, error) {
	path, err := Path(repoPath, newBranch)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "git", "worktree", "add", "-b", newBranch, path, baseBranch)
	cmd.Dir = repoPath
	out, err := cmd.CombinedOutput()
	if err != nil {
		config.Logger.Printf("worktree create failed for %s: %v: %s", path, err, out)
		return "", thurerr.WorktreeConflict(path, "git worktree add failed: "+strings.TrimSpace(string(out)), err)
	}
	config.Logger.Printf("worktree created: %s (branch %s from %s)", path, newBranch, baseBranch)
	return path, nil
}

// Remove deletes a worktree created by Create, locating the owning
// repository from the deterministic path shape itself (<repo>/.git/
// thurbox-worktrees/<branch>) so callers need not track it separately.
func Remove(ctx context.Context, worktreePath string) error {
	repoRoot := repoRootFromWorktreePath(worktreePath)

	cmd := exec.CommandContext(ctx, "git", "worktree", "remove", "--force", worktreePath)
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		config.Logger.Printf("worktree remove failed for %s: %v: %s", worktreePath, err, out)
		return thurerr.WorktreeConflict(worktreePath, "git worktree remove failed: "+strings.TrimSpace(string(out)), err)
	}
	config.Logger.Printf("worktree removed: %s", worktreePath)
	return nil
}

// repoRootFromWorktreePath strips the "/.git/thurbox-worktrees/<branch>"
// suffix that Path always produces.
func repoRootFromWorktreePath(worktreePath string) string {
	branchDir := filepath.Dir(worktreePath) // .../thurbox-worktrees
	gitDir := filepath.Dir(branchDir)       // .../.git
	return filepath.Dir(gitDir)             // repo root
}

// Fetch runs `git fetch` against the worktree's tracked remote.
func Fetch(ctx context.Context, worktreePath string) error {
	cmd := exec.CommandContext(ctx, "git", "fetch")
	cmd.Dir = worktreePath
	out, err := cmd.CombinedOutput()
	if err != nil {
		return thurerr.WorktreeConflict(worktreePath, "git fetch failed: "+strings.TrimSpace(string(out)), err)
	}
	return nil
}

// AheadBehind reports how many commits the worktree's checked-out branch
// is ahead of and behind its upstream, the same `git rev-list --left-right
// --count` call as the teacher's sourcecontrol.Panel.GetAheadBehind, but
// parsed with strconv instead of a hand-rolled digit scanner.
func AheadBehind(ctx context.Context, worktreePath string) (ahead, behind int, err error) {
	cmd := exec.CommandContext(ctx, "git", "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	cmd.Dir = worktreePath
	out, cmdErr := cmd.Output()
	if cmdErr != nil {
		return 0, 0, thurerr.WorktreeConflict(worktreePath, "no upstream configured", cmdErr)
	}

	parts := strings.Fields(strings.TrimSpace(string(out)))
	if len(parts) != 2 {
		return 0, 0, thurerr.BackendProtocol("unexpected git rev-list output: "+string(out), nil)
	}
	ahead, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	behind, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// Rebase runs `git rebase` against remoteRef, returning a RebaseConflict
// error (never a bare WorktreeConflict) when git reports the rebase
// stopped on a conflict, so callers can distinguish "needs manual
// resolution" from any other git failure.
func Rebase(ctx context.Context, worktreePath, remoteRef string) error {
	cmd := exec.CommandContext(ctx, "git", "rebase", remoteRef)
	cmd.Dir = worktreePath
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	output := string(out)
	if strings.Contains(output, "CONFLICT") || strings.Contains(output, "could not apply") {
		return thurerr.RebaseConflict(worktreePath, strings.TrimSpace(output))
	}
	return thurerr.WorktreeConflict(worktreePath, "git rebase failed: "+strings.TrimSpace(output), err)
}
