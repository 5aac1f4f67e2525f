package imagediscovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const isoExtension = ".iso"

var (
	ErrImageNotFound  = errors.New("unable to find image")
	ErrNoImage        = errors.New("no .iso image found")
	ErrMultipleImages = errors.New("more than one .iso image found")
)

// Discover resolves path to a single image file. A file is returned as is;
// a directory must contain exactly one ISO at its top level.
func Discover(discoverPath string) (string, error) {
	if discoverPath == "" {
		return "", fmt.Errorf("%w: no path given", ErrImageNotFound)
	}
	discoverInfo, err := os.Stat(discoverPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	if !discoverInfo.IsDir() {
		return discoverPath, nil
	}

	entries, err := os.ReadDir(discoverPath)
	if err != nil {
		return "", err
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !IsISO(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(discoverPath, entry.Name()))
	}
	return single(discoverPath, images)
}

// Find walks root looking for exactly one ISO, at any depth.
func Find(root string) (string, error) {
	var images []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsISO(d.Name()) {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return single(root, images)
}

func IsISO(name string) bool {
	return strings.EqualFold(filepath.Ext(name), isoExtension)
}

func single(where string, images []string) (string, error) {
	switch len(images) {
	case 0:
		return "", fmt.Errorf("%w in %v", ErrNoImage, where)
	case 1:
		return images[0], nil
	}
	sort.Strings(images)
	return "", fmt.Errorf("%w in %v: %v", ErrMultipleImages, where, strings.Join(images, ", "))
}
