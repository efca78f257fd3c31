package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 2 * 1024 * 1024 // 2MB

var debugEnabled atomic.Bool

// SetLevel enables Debugf output for "debug"; every other level keeps it quiet
func SetLevel(level string) {
	debugEnabled.Store(strings.EqualFold(strings.TrimSpace(level), "debug"))
}

// Debugf logs through the standard logger when the level is debug
func Debugf(format string, args ...any) {
	if debugEnabled.Load() {
		log.Output(2, "[DEBUG] "+fmt.Sprintf(format, args...))
	}
}

type Options struct {
	Path    string
	Level   string
	MaxSize int64
	// Console receives a copy of every line. Commands that print results on
	// stdout pass os.Stderr here.
	Console io.Writer
}

// Setup points the standard logger at the console and a size-capped file.
// An empty Path logs to the console only.
func Setup(opts Options) (*RotatingWriter, error) {
	SetLevel(opts.Level)

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	if opts.Path == "" {
		log.SetOutput(console)
		return nil, nil
	}

	rw, err := OpenRotating(opts.Path, opts.MaxSize)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(console, rw))
	return rw, nil
}

// RotatingWriter appends to a file and moves it to path.1 once it grows past
// maxSize. One backup is kept.
type RotatingWriter struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	size    int64
	maxSize int64
}

func OpenRotating(path string, maxSize int64) (*RotatingWriter, error) {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}

	// Truncate if too large on startup
	if info, err := os.Stat(path); err == nil && info.Size() > maxSize {
		os.Truncate(path, 0)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	size := int64(0)
	if info, _ := f.Stat(); info != nil {
		size = info.Size()
	}

	return &RotatingWriter{
		file:    f,
		path:    path,
		size:    size,
		maxSize: maxSize,
	}, nil
}

func (w *RotatingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err = w.file.Write(p)
	w.size += int64(n)

	if w.size > w.maxSize {
		w.rotate()
	}

	return n, err
}

func (w *RotatingWriter) rotate() {
	w.file.Close()
	os.Rename(w.path, w.path+".1")

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return
	}

	w.file = f
	w.size = 0
}

func (w *RotatingWriter) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
