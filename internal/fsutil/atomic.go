// Package fsutil writes output files so that a failed or cancelled run
// never leaves a partial file at the destination.
package fsutil

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic streams fill into a temporary file beside path and renames
// it over path once fill and the flush succeed. On any error the
// temporary file is removed and path is untouched.
func WriteAtomic(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fill(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
