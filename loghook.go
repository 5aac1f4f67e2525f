package main

import (
	"github.com/sirupsen/logrus"
	"gitlab.com/woeusb/woeusb-flasher/internal/color"
	"io"
	"os"
	"sync"
)

// fileHook appends every log entry to a file without colour codes.
type fileHook struct {
	mu        sync.Mutex
	out       io.WriteCloser
	formatter logrus.Formatter
}

func newFileHook(path string) (*fileHook, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return newWriterHook(f), nil
}

func newWriterHook(out io.WriteCloser) *fileHook {
	return &fileHook{
		out:       out,
		formatter: &logrus.TextFormatter{DisableColors: true, FullTimestamp: true},
	}
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	plain := entry.Dup()
	plain.Level = entry.Level
	plain.Message = color.Strip(entry.Message)
	data, err := h.formatter.Format(plain)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.out == nil {
		return nil
	}
	_, err = h.out.Write(data)
	return err
}

// Close stops the hook; later entries are dropped.
func (h *fileHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.out == nil {
		return nil
	}
	err := h.out.Close()
	h.out = nil
	return err
}
