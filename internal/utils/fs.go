package utils

import (
	"os"
	"regexp"
	"strings"

	"github.com/twpayne/go-vfs/v4"
)

// CreateIfNotExists creates path and its parents, doing nothing when it is already there.
func CreateIfNotExists(fs vfs.FS, path string, perm os.FileMode) error {
	if _, err := fs.Stat(path); os.IsNotExist(err) {
		return vfs.MkdirAll(fs, path, perm)
	}
	return nil
}

// WriteFile writes content trimmed of surrounding whitespace plus a single
// trailing newline.
func WriteFile(fs vfs.FS, path, content string) error {
	return fs.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o644)
}

// ReplaceInFile applies re to every line of path.
func ReplaceInFile(fs vfs.FS, path string, re *regexp.Regexp, replacement string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return err
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = re.ReplaceAllString(l, replacement)
	}
	return fs.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm())
}
