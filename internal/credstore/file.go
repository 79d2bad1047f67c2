package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

type document struct {
	Token string `json:"token,omitempty"`
	User  string `json:"user,omitempty"`
}

// File хранит обе записи в одном JSON-документе на диске.
// Запись идёт через временный файл и rename, поэтому читатель видит
// либо старое, либо новое состояние целиком.
type File struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

// NewFile создаёт файловое хранилище по пути path.
func NewFile(path string, log *slog.Logger) *File {
	return &File{path: path, log: log}
}

// Path возвращает путь к файлу хранилища.
func (f *File) Path() string {
	return f.path
}

func (f *File) StoreAuth(_ context.Context, token string, user json.RawMessage) error {
	const op = "credstore.File.StoreAuth"
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := document{Token: token, User: userText(user)}
	if err := f.write(doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *File) Token(_ context.Context) (string, bool, error) {
	const op = "credstore.File.Token"
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return doc.Token, doc.Token != "", nil
}

func (f *File) User(_ context.Context) (Profile, error) {
	const op = "credstore.File.User"
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if errors.Is(err, ErrCorrupt) {
		f.log.Warn("credential file is corrupt", sl.Op(op), sl.Err(err))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p, ok := parseProfile(doc.User)
	if !ok {
		f.log.Warn("stored user profile is not valid JSON", sl.Op(op))
	}
	return p, nil
}

func (f *File) Logout(_ context.Context) error {
	const op = "credstore.File.Logout"
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *File) ClearToken(_ context.Context) error {
	const op = "credstore.File.ClearToken"
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if doc.Token == "" && err == nil {
		return nil
	}
	doc.Token = ""
	if err := f.write(doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *File) read() (document, error) {
	var doc document
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return doc, nil
}

func (f *File) write(doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
