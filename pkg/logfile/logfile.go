/*
   Copyright The typepool Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package logfile is the diagnostic log sink consumed by the pool
// tooling: an append-only destination that takes pre-rendered text or
// structured records, one record per call. It has no bearing on pool
// semantics.
//
// Malformed character sequences are replaced rather than rejected, since
// logged text may quote invalid source input verbatim. Failures to open,
// write or close the destination are surfaced as errors; callers treat
// them as fatal.
package logfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink accepts diagnostic records. Each call appends exactly one record;
// text records are newline-terminated. Close must be called to guarantee
// buffered output reaches the destination.
type Sink interface {
	// Log appends a rendered line.
	Log(s string) error
	// Logv renders an arbitrary value with fmt.Sprint.
	Logv(v any) error
	// Logf renders a format string with arguments.
	Logf(format string, args ...any) error
	// Lazy defers rendering until the record is written; sinks that drop
	// records never invoke fn.
	Lazy(fn func() string) error
	// JSON appends a value rendered as a single JSON document.
	JSON(v any) error
	Close() error
}

// Discard is a Sink that drops everything. Lazy producers are never
// invoked, so logging statements stay cheap when disabled.
var Discard Sink = discard{}

type discard struct{}

func (discard) Log(string) error          { return nil }
func (discard) Logv(any) error            { return nil }
func (discard) Logf(string, ...any) error { return nil }
func (discard) Lazy(func() string) error  { return nil }
func (discard) JSON(any) error            { return nil }
func (discard) Close() error              { return nil }

// File is a Sink appending to a file, creating parent directories on
// open. Not safe for concurrent use; each analysis pass owns its sink.
type File struct {
	f *os.File
	w *bufio.Writer
}

// Open opens path for appending, creating it and its parent directories
// as needed.
func Open(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &File{f: f, w: bufio.NewWriter(f)}, nil
}

func (l *File) Log(s string) error {
	return l.append(s)
}

func (l *File) Logv(v any) error {
	return l.append(fmt.Sprint(v))
}

func (l *File) Logf(format string, args ...any) error {
	return l.append(fmt.Sprintf(format, args...))
}

func (l *File) Lazy(fn func() string) error {
	return l.append(fn())
}

func (l *File) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("render log record: %w", err)
	}
	return l.append(string(data))
}

func (l *File) append(s string) error {
	// Invalid sequences are replaced, not rejected: the record may quote
	// source text that is itself malformed.
	if _, err := l.w.WriteString(strings.ToValidUTF8(s, "�")); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// Close flushes buffered records and releases the file.
func (l *File) Close() error {
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
