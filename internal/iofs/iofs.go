// Package iofs keeps file system chores of cfgrepair: application
// directories, the default config.yaml and atomic replacement of
// repaired documents.
package iofs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/gnames/cfgrepair/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

// EnsureLogDir creates the log directory. It is needed only when logs
// go to a file.
func EnsureLogDir(homeDir string) error {
	return touchDir(config.LogDir(homeDir))
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile copies the documented config.yaml template to the
// config directory unless the file is already there.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := touchDir(config.ConfigDir(homeDir)); err != nil {
		return err
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ReadFile reads the whole document at path.
func ReadFile(path string) ([]byte, error) {
	res, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}

// WriteFile replaces the content of path with data. Data goes to a
// temporary file in the same directory which is then renamed over path,
// so the document is either fully old or fully new. The permissions of an
// existing file are kept. If path is a symbolic link, the file it points
// to is replaced and the link stays.
func WriteFile(path string, data []byte) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(
		filepath.Dir(target), "."+filepath.Base(target)+".*.tmp",
	)
	if err != nil {
		return WriteFileError(path, err)
	}
	tmpPath := tmp.Name()
	// after a successful rename there is nothing left to remove
	defer os.Remove(tmpPath)

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return WriteFileError(path, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return WriteFileError(path, err)
	}
	if err = tmp.Close(); err != nil {
		return WriteFileError(path, err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return WriteFileError(path, err)
	}
	if err = os.Rename(tmpPath, target); err != nil {
		return WriteFileError(path, err)
	}

	return nil
}
