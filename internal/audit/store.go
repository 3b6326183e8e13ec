// Package audit persists operation logs as YAML documents on the local
// filesystem, one file per operation under year/month directories.
package audit

import (
	"context"
	stderrs "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/errors"
)

const (
	operationFilePrefix = "operation-"
	recordsFileSuffix   = ".records.yaml"
	operationFileSuffix = ".yaml"
)

// FileStore writes audit documents under baseDir/<year>/<month>/. Each
// operation produces two files: a records stream appended as the run
// progresses, and the final operation document written once at the end. The
// stream survives a crash mid-run; the final document supersedes it.
type FileStore struct {
	baseDir string
	now     func() time.Time

	mu sync.Mutex
}

type StoreOption func(*FileStore)

// WithClock overrides the directory-partitioning clock, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewFileStore(baseDir string, opts ...StoreOption) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New(errors.CodeConfigValidation, "audit directory cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeAuditWriteError,
			fmt.Sprintf("failed to create audit directory %q", baseDir))
	}
	s := &FileStore{baseDir: baseDir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *FileStore) monthDir(t time.Time) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%04d", t.Year()), fmt.Sprintf("%02d", int(t.Month())))
}

// Append streams one record as a YAML document appended to the operation's
// records file. The file is opened per call so a crashed run loses at most
// the record being written.
func (s *FileStore) Append(_ context.Context, rec domain.AuditRecord) error {
	if err := rec.Validate(); err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError, "refusing to append invalid audit record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.monthDir(s.now().UTC())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError, "failed to create audit partition")
	}

	path := filepath.Join(dir, operationFilePrefix+rec.OperationID+recordsFileSuffix)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError,
			fmt.Sprintf("failed to open audit stream %q", path))
	}
	defer f.Close()

	out, err := yaml.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError, "failed to encode audit record")
	}
	if _, err := f.Write(append([]byte("---\n"), out...)); err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError, "failed to append audit record")
	}
	return nil
}

// WriteOperation persists the complete operation document. The records
// stream for the same operation is removed afterwards; the document is now
// the authoritative copy.
func (s *FileStore) WriteOperation(_ context.Context, op domain.Operation, recs []domain.AuditRecord) error {
	if op.OperationID == "" {
		return errors.New(errors.CodeAuditWriteError, "operation id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.monthDir(s.now().UTC())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError, "failed to create audit partition")
	}

	doc := ports.OperationLog{Operation: op, Records: recs}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError, "failed to encode operation document")
	}

	path := filepath.Join(dir, operationFilePrefix+op.OperationID+operationFileSuffix)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError,
			fmt.Sprintf("failed to write operation document %q", path))
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, errors.CodeAuditWriteError,
			fmt.Sprintf("failed to finalize operation document %q", path))
	}

	_ = os.Remove(filepath.Join(dir, operationFilePrefix+op.OperationID+recordsFileSuffix))
	return nil
}

// ReadOperation loads one operation document by id, searching every
// partition. A still-streaming run (records file present, no final document)
// is reconstructed from the stream with a planned-status operation stub.
func (s *FileStore) ReadOperation(ctx context.Context, operationID string) (*ports.OperationLog, error) {
	if operationID == "" {
		return nil, errors.NewUserFacing(errors.CodeAuditReadError, "operation id cannot be empty",
			"Pass the op_ identifier printed when the operation ran.")
	}

	var docPath, streamPath string
	err := s.walk(func(path string, name string) {
		switch name {
		case operationFilePrefix + operationID + operationFileSuffix:
			docPath = path
		case operationFilePrefix + operationID + recordsFileSuffix:
			streamPath = path
		}
	})
	if err != nil {
		return nil, err
	}

	if docPath != "" {
		return s.readDocument(docPath)
	}
	if streamPath != "" {
		recs, err := s.readStream(streamPath)
		if err != nil {
			return nil, err
		}
		log := &ports.OperationLog{
			Operation: domain.Operation{OperationID: operationID, Status: domain.OpStatusPlanned},
			Records:   recs,
		}
		if len(recs) > 0 {
			log.Operation.StartedAt = recs[0].Timestamp
			log.Operation.BaselineSnapshot = recs[0].SnapshotID
		}
		return log, nil
	}

	return nil, errors.NewUserFacing(errors.CodeAuditReadError,
		fmt.Sprintf("no audit log found for operation %q", operationID),
		"Check the operation id, or query by time range instead.")
}

// Query returns every finalized operation whose start time falls in
// [since, until), oldest first.
func (s *FileStore) Query(_ context.Context, since, until time.Time) ([]ports.OperationLog, error) {
	var paths []string
	err := s.walk(func(path string, name string) {
		if strings.HasPrefix(name, operationFilePrefix) &&
			strings.HasSuffix(name, operationFileSuffix) &&
			!strings.HasSuffix(name, recordsFileSuffix) {
			paths = append(paths, path)
		}
	})
	if err != nil {
		return nil, err
	}

	var logs []ports.OperationLog
	for _, path := range paths {
		log, err := s.readDocument(path)
		if err != nil {
			return nil, err
		}
		start := log.Operation.StartedAt
		if start.Before(since) || !start.Before(until) {
			continue
		}
		logs = append(logs, *log)
	}

	sortLogs(logs)
	return logs, nil
}

func (s *FileStore) walk(visit func(path, name string)) error {
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			visit(path, d.Name())
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeAuditReadError, "failed to scan audit directory")
	}
	return nil
}

func (s *FileStore) readDocument(path string) (*ports.OperationLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAuditReadError,
			fmt.Sprintf("failed to read operation document %q", path))
	}
	var log ports.OperationLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, errors.Wrap(err, errors.CodeAuditReadError,
			fmt.Sprintf("failed to parse operation document %q", path))
	}
	return &log, nil
}

func (s *FileStore) readStream(path string) ([]domain.AuditRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAuditReadError,
			fmt.Sprintf("failed to open audit stream %q", path))
	}
	defer f.Close()

	var recs []domain.AuditRecord
	dec := yaml.NewDecoder(f)
	for {
		var rec domain.AuditRecord
		if err := dec.Decode(&rec); err != nil {
			if stderrs.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrap(err, errors.CodeAuditReadError,
				fmt.Sprintf("failed to parse audit stream %q", path))
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func sortLogs(logs []ports.OperationLog) {
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Operation.StartedAt.Before(logs[j].Operation.StartedAt)
	})
}
