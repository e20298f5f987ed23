package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	defaultLogFileMaxBytes = 5 * 1024 * 1024
	defaultLogFilesKept    = 10
	logFilePrefix          = "mercure"
)

// fileSink appends JSONL records to size-bounded files named
// mercure-<session>-<part>.jsonl and keeps the newest defaultLogFilesKept.
type fileSink struct {
	mu         sync.Mutex
	dir        string
	sessionTag string
	maxBytes   int64
	keep       int
	part       int
	file       *os.File
	size       int64
	closed     bool
}

type logRecord struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// DefaultLogDirPath is where JSONL logs go when no directory is configured.
func DefaultLogDirPath() (string, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "mercure-client", "logs"), nil
}

func newFileSink(dir string, maxBytes int64) (*fileSink, error) {
	if maxBytes <= 0 {
		maxBytes = defaultLogFileMaxBytes
	}
	if strings.TrimSpace(dir) == "" {
		var err error
		if dir, err = DefaultLogDirPath(); err != nil {
			return nil, err
		}
	}
	sink := &fileSink{
		dir:        dir,
		sessionTag: time.Now().UTC().Format("20060102-150405"),
		maxBytes:   maxBytes,
		keep:       defaultLogFilesKept,
	}
	if err := sink.rotateLocked(); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *fileSink) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.closeFileLocked()
}

func (s *fileSink) WriteEvent(event Event) error {
	if s == nil {
		return nil
	}
	line, err := encodeRecord(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}
	full := s.size > 0 && s.size+int64(len(line)) > s.maxBytes
	if s.file == nil || full {
		if err := s.rotateLocked(); err != nil {
			return err
		}
	}
	n, err := s.file.Write(line)
	s.size += int64(n)
	return err
}

func encodeRecord(event Event) ([]byte, error) {
	record := logRecord{
		Time:    event.Time.UTC().Format(time.RFC3339Nano),
		Level:   strings.ToUpper(event.Level.String()),
		Message: event.Message,
	}
	if len(event.Fields) > 0 {
		record.Fields = make(map[string]any, len(event.Fields))
		for key, value := range event.Fields {
			record.Fields[key] = jsonFieldValue(value)
		}
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}

// jsonFieldValue turns errors and Stringers into their text so the record
// stays readable after a JSON round trip.
func jsonFieldValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return value
	}
}

func (s *fileSink) closeFileLocked() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.size = 0
	return err
}

func (s *fileSink) rotateLocked() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	_ = s.closeFileLocked()

	s.part++
	name := fmt.Sprintf("%s-%s-%03d.jsonl", logFilePrefix, s.sessionTag, s.part)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	s.file = f
	s.size = info.Size()
	s.pruneLocked()
	return nil
}

// pruneLocked removes the oldest log files beyond s.keep. Names sort by
// session and part, so lexical order is age order.
func (s *fileSink) pruneLocked() {
	if s.keep <= 0 {
		return
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, logFilePrefix+"-*.jsonl"))
	if err != nil || len(matches) <= s.keep {
		return
	}
	slices.Sort(matches)
	for _, path := range matches[:len(matches)-s.keep] {
		_ = os.Remove(path)
	}
}
