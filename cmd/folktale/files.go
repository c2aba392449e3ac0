package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pb "github.com/cheggaaa/pb/v3"
)

// readInput reads path, drawing a progress bar when progress is set.
func readInput(path string, progress bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	var reader io.Reader = f
	if progress {
		bar := pb.New64(info.Size()).SetTemplate(pb.Full)
		bar.Set(pb.Bytes, true)
		bar.SetWriter(os.Stderr)
		bar.Start()
		defer bar.Finish()
		reader = bar.NewProxyReader(f)
	}
	var buf bytes.Buffer
	buf.Grow(int(info.Size()))
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

// writeOutput writes data next to path and renames it into place, so a
// failed run never leaves a partial artifact behind.
func writeOutput(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
