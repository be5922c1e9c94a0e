// Package filestore keeps each key in its own file under a root directory.
package filestore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/storage"
)

type FileStore struct {
	Root string
}

// New opens the store rooted at root, creating the directory if needed.
func New(root string) (kv *FileStore, err error) {
	kv = &FileStore{
		Root: root,
	}

	info, err := os.Stat(root)
	if err == nil {
		if !info.IsDir() {
			log.Error().Str("root", root).Msg("not a directory")
			err = storage.ErrNotDir
		}
		return
	}

	if errors.Is(err, os.ErrNotExist) {
		err = os.MkdirAll(root, 0o700)
	}

	if err != nil {
		log.Error().Err(err).Msg("internal error when setting up storage")
		err = storage.ErrInternal
	}

	return
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", storage.ErrInvalidKey
	}
	return filepath.Join(s.Root, key), nil
}

func (s *FileStore) Get(key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", storage.ErrNotExist
		}
		log.Error().Err(err).Msg("failed to read file " + path)
		return "", storage.ErrInternal
	}
	return string(content), nil
}

// Set replaces the key's file atomically, so a crash never leaves a half written token behind.
func (s *FileStore) Set(key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, strings.NewReader(value)); err != nil {
		log.Error().Err(err).Msg("failed to write file " + path)
		return storage.ErrInternal
	}
	if err := os.Chmod(path, 0o600); err != nil {
		log.Warn().Err(err).Msg("failed to restrict file permissions")
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		log.Error().Err(err).Msg("file deletion error")
		return storage.ErrInternal
	}

	return nil
}
