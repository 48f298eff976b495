package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"clubdirectory/internal/model"
)

// FileRepository keeps the collection in memory and mirrors it to a JSON
// snapshot after every successful mutation.
type FileRepository struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	members []model.Member
}

var _ MemberRepository = (*FileRepository)(nil)

// NewFileRepository loads the snapshot at path. A missing file starts an
// empty collection.
func NewFileRepository(path string, logger *slog.Logger) (*FileRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	members, err := ReadSnapshot(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if members == nil {
		members = []model.Member{}
	}
	logger.Info("member snapshot loaded", "path", path, "count", len(members))
	return &FileRepository{path: path, logger: logger, members: members}, nil
}

// ReadSnapshot decodes a member snapshot file.
func ReadSnapshot(path string) ([]model.Member, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var members []model.Member
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	for i := range members {
		if members[i].Activities == nil {
			members[i].Activities = model.Activities{}
		}
	}
	return members, nil
}

// Path returns the snapshot location.
func (r *FileRepository) Path() string {
	return r.path
}

// List returns the filtered, sorted members.
func (r *FileRepository) List(ctx context.Context, filter Filter) ([]model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(r.members), nil
}

// Exists reports whether a member with id is stored.
func (r *FileRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0, nil
}

// Create appends member and rewrites the snapshot.
func (r *FileRepository) Create(ctx context.Context, member *model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = append(r.members, member.Clone())
	r.persist()
	return nil
}

// Update merges patch over the member with id and rewrites the snapshot.
func (r *FileRepository) Update(ctx context.Context, id string, patch model.MemberPatch) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	patch.ApplyTo(&r.members[i])
	r.persist()
	updated := r.members[i].Clone()
	return &updated, nil
}

// Delete removes the first member with id and rewrites the snapshot.
func (r *FileRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.members = slices.Delete(r.members, i, i+1)
	r.persist()
	return true, nil
}

func (r *FileRepository) indexOf(id string) int {
	return slices.IndexFunc(r.members, func(m model.Member) bool { return m.ID == id })
}

// persist writes the snapshot; failures are logged and the in-memory state
// is kept. Callers hold the write lock.
func (r *FileRepository) persist() {
	if err := WriteSnapshot(r.path, r.members); err != nil {
		r.logger.Error("write member snapshot", "path", r.path, "error", err)
	}
}

// WriteSnapshot atomically replaces path with the JSON encoding of members:
// the data goes to a temporary file in the same directory which is then
// renamed over the target.
func WriteSnapshot(path string, members []model.Member) error {
	if members == nil {
		members = []model.Member{}
	}
	data, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
