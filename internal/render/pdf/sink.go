package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink persists a finished document
type Sink interface {
	Save(ctx context.Context, blob []byte, filename string) error
}

// FileSink writes documents into Dir. The file appears under its final name
// only once it has been written completely.
type FileSink struct {
	Dir  string
	Perm os.FileMode
}

// NewFileSink creates a sink writing into dir with mode 0644
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir, Perm: 0o644}
}

// Save implements Sink
func (s *FileSink) Save(ctx context.Context, blob []byte, filename string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.Dir, filename)
	outputDir := filepath.Dir(target)
	if _, statErr := os.Stat(outputDir); os.IsNotExist(statErr) {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(outputDir, ".img2pdf-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(blob); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move document into place: %w", err)
	}
	return nil
}

// WriterSink writes documents to an io.Writer and remembers the last filename
type WriterSink struct {
	W    io.Writer
	Name string
}

// Save implements Sink
func (s *WriterSink) Save(ctx context.Context, blob []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.W.Write(blob); err != nil {
		return err
	}
	s.Name = filename
	return nil
}
