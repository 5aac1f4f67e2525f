package imagediscovery

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	assert.Nil(t, os.MkdirAll(filepath.Dir(path), 0755))
	assert.Nil(t, os.WriteFile(path, []byte("iso"), 0644))
	return path
}

func TestDiscover(t *testing.T) {
	tests := map[string]struct {
		prepare     func(t *testing.T, dir string) (input, expected string)
		expectedErr error
	}{
		"file is used as is": {
			prepare: func(t *testing.T, dir string) (string, string) {
				p := touch(t, filepath.Join(dir, "Win10_22H2_English_x64.iso"))
				return p, p
			},
		},
		"non iso file is still accepted": {
			prepare: func(t *testing.T, dir string) (string, string) {
				p := touch(t, filepath.Join(dir, "windows.img"))
				return p, p
			},
		},
		"directory with a single iso": {
			prepare: func(t *testing.T, dir string) (string, string) {
				p := touch(t, filepath.Join(dir, "Win11.ISO"))
				touch(t, filepath.Join(dir, "README.txt"))
				return dir, p
			},
		},
		"directory ignores nested isos": {
			prepare: func(t *testing.T, dir string) (string, string) {
				p := touch(t, filepath.Join(dir, "win.iso"))
				touch(t, filepath.Join(dir, "old", "win7.iso"))
				return dir, p
			},
		},
		"directory with several isos": {
			prepare: func(t *testing.T, dir string) (string, string) {
				touch(t, filepath.Join(dir, "win10.iso"))
				touch(t, filepath.Join(dir, "win11.iso"))
				return dir, ""
			},
			expectedErr: ErrMultipleImages,
		},
		"directory without isos": {
			prepare: func(t *testing.T, dir string) (string, string) {
				touch(t, filepath.Join(dir, "notes.txt"))
				return dir, ""
			},
			expectedErr: ErrNoImage,
		},
		"missing path": {
			prepare: func(t *testing.T, dir string) (string, string) {
				return filepath.Join(dir, "missing.iso"), ""
			},
			expectedErr: ErrImageNotFound,
		},
		"empty path": {
			prepare: func(t *testing.T, dir string) (string, string) {
				return "", ""
			},
			expectedErr: ErrImageNotFound,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			input, expected := tc.prepare(t, t.TempDir())
			image, err := Discover(input)
			if tc.expectedErr != nil {
				assert.True(t, errors.Is(err, tc.expectedErr))
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, expected, image)
		})
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	p := touch(t, filepath.Join(dir, "Win10_22H2", "sources", "Win10.iso"))
	image, err := Find(dir)
	assert.Nil(t, err)
	assert.Equal(t, p, image)

	touch(t, filepath.Join(dir, "other.iso"))
	_, err = Find(dir)
	assert.True(t, errors.Is(err, ErrMultipleImages))

	_, err = Find(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoImage))
}
