package testdoubles

import (
	"context"
	"strings"
	"sync"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
)

// LogRecord is one captured log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
}

// LoggerSpy captures log calls for testing. It implements both
// eventstore.Logger and eventstore.ContextualLogger.
type LoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewLoggerSpy creates an empty LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) log(level, msg string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, LogRecord{Level: level, Message: msg, Args: args})
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.log("debug", msg, args...) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.log("info", msg, args...) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.log("warn", msg, args...) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.log("error", msg, args...) }

func (s *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) { s.Debug(msg, args...) }
func (s *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any)  { s.Info(msg, args...) }
func (s *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any)  { s.Warn(msg, args...) }
func (s *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) { s.Error(msg, args...) }

// HasMessageContaining reports whether any captured message contains the substring.
func (s *LoggerSpy) HasMessageContaining(substring string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if strings.Contains(record.Message, substring) {
			return true
		}
	}

	return false
}

// Records returns a copy of all captured log records.
func (s *LoggerSpy) Records() []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]LogRecord, len(s.records))
	copy(records, s.records)

	return records
}

var _ eventstore.Logger = (*LoggerSpy)(nil)
var _ eventstore.ContextualLogger = (*LoggerSpy)(nil)
