package run

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var ErrNotDirectory = errors.New("not a directory")

func isYAML(p string) bool {
	ext := filepath.Ext(p)
	return ext == ".yml" || ext == ".yaml"
}

// searchFiles returns YAML files under the directory sorted by path.
// Symbolic links and files matching ignore_files are excluded.
func (c *Controller) searchFiles(logE *logrus.Entry) ([]string, error) {
	dir := c.param.Dir
	fi, err := c.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("get a directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	root, err := c.walkRoot(dir)
	if err != nil {
		return nil, err
	}
	if root != dir {
		logE.WithFields(logrus.Fields{
			"dir":    dir,
			"target": root,
		}).Debug("the directory is a symbolic link")
	}
	files := []string{}
	if err := afero.Walk(c.fs, root, func(p string, info os.FileInfo, e error) error {
		if e != nil {
			return e
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			// ignore directories and symbolic links
			return nil
		}
		if !isYAML(p) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("get a relative path: %w", err)
		}
		if root != dir {
			p = filepath.Join(dir, rel)
		}
		if c.cfg.Ignored(filepath.ToSlash(rel)) {
			logE.WithField("workflow_file", p).Debug("ignore a file")
			return nil
		}
		files = append(files, p)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("walk a directory: %w", err)
	}
	slices.SortFunc(files, func(a, b string) int {
		return strings.Compare(filepath.ToSlash(a), filepath.ToSlash(b))
	})
	return files, nil
}

const maxSymlinks = 40

// walkRoot resolves the directory if it's a symbolic link, which afero.Walk doesn't follow.
func (c *Controller) walkRoot(dir string) (string, error) {
	lstater, ok := c.fs.(afero.Lstater)
	if !ok {
		return dir, nil
	}
	reader, ok := c.fs.(afero.LinkReader)
	if !ok {
		return dir, nil
	}
	root := dir
	for range maxSymlinks {
		fi, _, err := lstater.LstatIfPossible(root)
		if err != nil {
			return "", fmt.Errorf("get a directory: %w", err)
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			return root, nil
		}
		target, err := reader.ReadlinkIfPossible(root)
		if err != nil {
			return "", fmt.Errorf("read a symbolic link: %w", err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(root), target)
		}
		root = target
	}
	return "", fmt.Errorf("too many levels of symbolic links: %s", dir)
}
