package gitops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository with a single commit so branches can be
// created from HEAD.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func TestCreateBranch_ChecksOutNewBranch(t *testing.T) {
	dir := initRepo(t)

	require.NoError(t, CreateBranch(dir, "001-add-dark-mode"))

	branch, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "001-add-dark-mode", branch)
}

func TestCreateBranch_FromSubdirectory(t *testing.T) {
	dir := initRepo(t)
	sub := filepath.Join(dir, "specs")
	require.NoError(t, os.Mkdir(sub, 0o755))

	require.NoError(t, CreateBranch(sub, "002-from-subdir"))

	branch, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "002-from-subdir", branch)
}

func TestCreateBranch_NoRepository(t *testing.T) {
	err := CreateBranch(t.TempDir(), "001-nope")
	assert.Error(t, err)
}

func TestCurrentBranch_NoRepository(t *testing.T) {
	_, err := CurrentBranch(t.TempDir())
	assert.Error(t, err)
}
