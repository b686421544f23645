// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package walk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
}

func touch(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644))
	}
}

func TestVolumes_NaturalOrder(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "2", "10", "1")

	got, err := Volumes(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "10"}, names(got))
	assert.Equal(t, filepath.Join(root, "1"), got[0].Path)
}

func TestIssues_MixedPadding(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "issue-10", "issue-02", "issue-1", "issue-3")

	got, err := Issues(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"issue-1", "issue-02", "issue-3", "issue-10"}, names(got))
}

func TestList_FiltersHiddenAndWrongKind(t *testing.T) {
	tests := []struct {
		name  string
		list  func(string) ([]Entry, error)
		dirs  []string
		files []string
		want  []string
	}{
		{
			name:  "directory level skips files and dot entries",
			list:  Volumes,
			dirs:  []string{"1", ".git", "2"},
			files: []string{".DS_Store", "notes.txt"},
			want:  []string{"1", "2"},
		},
		{
			name:  "article level skips directories and dot files",
			list:  Articles,
			dirs:  []string{"supplements"},
			files: []string{"10.pdf", ".DS_Store", "2.pdf", "._2.pdf"},
			want:  []string{"2.pdf", "10.pdf"},
		},
		{
			name: "empty directory yields nothing",
			list: Issues,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			mkdirs(t, root, tt.dirs...)
			touch(t, root, tt.files...)

			got, err := tt.list(root)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestList_FollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	touch(t, target, "real.pdf")
	require.NoError(t, os.Symlink(filepath.Join(target, "real.pdf"), filepath.Join(root, "1.pdf")))
	require.NoError(t, os.Symlink(filepath.Join(target, "missing.pdf"), filepath.Join(root, "2.pdf")))

	got, err := Articles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.pdf"}, names(got))
}

func TestList_UnreadableDirectory(t *testing.T) {
	_, err := Volumes(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading directory")
}

func TestSortNatural(t *testing.T) {
	entries := []Entry{{Name: "2"}, {Name: "10"}, {Name: "1"}}
	SortNatural(entries)
	assert.Equal(t, []string{"1", "2", "10"}, names(entries))
}
