// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one named sequence.
type Record struct {
	ID  string
	Seq []byte
}

// ReadTarget reads the first record of a FASTA file, or the whole file as
// one sequence when it has no header. Whitespace inside the sequence is
// dropped and letters are upper-cased. "-" reads stdin; ".gz" is inflated.
func ReadTarget(path string) (Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return Record{}, err
	}
	defer rc.Close()
	rec, err := Parse(rc)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Parse reads the first record from r.
func Parse(r io.Reader) (Record, error) {
	br := bufio.NewReader(r)
	var (
		rec      Record
		inRecord bool
	)
	for {
		line, err := br.ReadBytes('\n')
		eof := err == io.EOF
		if err != nil && !eof {
			return Record{}, err
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 && line[0] == '>' {
			if inRecord {
				break // only the first record
			}
			inRecord = true
			if f := strings.Fields(string(line[1:])); len(f) > 0 {
				rec.ID = f[0]
			}
		} else if len(line) > 0 && line[0] != ';' {
			rec.Seq = append(rec.Seq, bytes.ToUpper(stripSpace(line))...)
		}
		if eof {
			break
		}
	}
	if len(rec.Seq) == 0 {
		return Record{}, fmt.Errorf("no sequence found")
	}
	return rec, nil
}

/* ---------------- small helpers ---------------- */

func stripSpace(b []byte) []byte {
	return bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, b)
}

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return fh, nil
}
