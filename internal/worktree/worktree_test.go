package worktree

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		assert.NoError(t, err, string(out))
	}
	run("init", "-b", "main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0o644))
	run("add", "-A")
	run("commit", "-m", "initial")
	return dir
}

func TestSanitizeBranchReplacesSlashes(t *testing.T) {
	assert.Equal(t, "feat-x", SanitizeBranch("feat/x"))
	assert.Equal(t, "a-b-c", SanitizeBranch("a/b/c"))
}

func TestPathIsDeterministic(t *testing.T) {
	p, err := Path("/tmp/r", "feat/x")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/r", ".git", DirName, "feat-x"), p)
}

func TestPathRejectsEscapingBranchName(t *testing.T) {
	_, err := Path("/tmp/r", "../../etc")
	assert.Error(t, err)
}

func TestCreateAndRemoveWorktree(t *testing.T) {
	repo := initRepo(t)
	ctx := context.Background()

	path, err := Create(ctx, repo, "main", "feat/x")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, ".git", DirName, "feat-x"), path)

	branches, err := ListBranches(ctx, repo)
	assert.NoError(t, err)
	assert.Contains(t, branches, "feat/x")

	assert.NoError(t, Remove(ctx, path))

	_, err = ListBranches(ctx, repo)
	assert.NoError(t, err)
}

func TestRepoRootFromWorktreePath(t *testing.T) {
	got := repoRootFromWorktreePath("/tmp/r/.git/thurbox-worktrees/feat-x")
	assert.Equal(t, "/tmp/r", got)
}
