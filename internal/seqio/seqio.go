// Package reading raw sequence input: streaming FASTA/FASTQ records with
// transparent gzip detection, plus input file lists.
package seqio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidFormat = errors.New("invalid format")
)

// sequence lines can be a whole unwrapped chromosome
const maxLineBytes = 64 * 1024 * 1024

type reader struct {
	io.Reader
	close func() error
}

func (r *reader) Close() error { return r.close() }

// Open opens a sequence file ("-" for stdin) and transparently decompresses
// it when the stream starts with the gzip magic bytes.
func Open(path string) (io.ReadCloser, error) {
	var file *os.File
	closeFile := func() error { return nil }
	if path == "-" {
		file = os.Stdin
	} else {
		var err error
		if file, err = os.Open(path); err != nil {
			return nil, fmt.Errorf("error opening %s, %w", path, err)
		}
		closeFile = file.Close
	}
	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			if cerr := closeFile(); cerr != nil {
				return nil, cerr
			}
			return nil, fmt.Errorf("%w, bad gzip stream in %s: %s", ErrInvalidFormat, path, err.Error())
		}
		return &reader{Reader: gz, close: func() error {
			if err := gz.Close(); err != nil {
				return err
			}
			return closeFile()
		}}, nil
	}
	return &reader{Reader: br, close: closeFile}, nil
}

// Records streams FASTA ('>') or FASTQ ('@') records from r, calling emit
// once per record. FASTA sequences may span lines; blank lines and trailing
// carriage returns are tolerated. The seq slice is only valid during the
// emit call. An emit error aborts the scan and is returned as is.
func Records(r io.Reader, emit func(name string, seq []byte) error) error {
	const (
		modeUnknown = iota
		modeFasta
		modeFastq
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)
	mode := modeUnknown
	phase := 0 // fastq line cycle: header, sequence, plus, quality
	var name string
	var seq []byte
	started := false
	for i := 0; scanner.Scan(); i++ {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if mode == modeUnknown {
			switch line[0] {
			case '>':
				mode = modeFasta
			case '@':
				mode = modeFastq
			default:
				return fmt.Errorf("%w, line %d starts with %q; expected fasta or fastq", ErrInvalidFormat, i+1, line[0])
			}
		}
		switch mode {
		case modeFasta:
			if line[0] == '>' {
				if started {
					if err := emit(name, seq); err != nil {
						return err
					}
				}
				name = string(bytes.TrimSpace(line[1:]))
				seq = seq[:0]
				started = true
			} else {
				if !started {
					return fmt.Errorf("%w, line %d: sequence before fasta header", ErrInvalidFormat, i+1)
				}
				seq = append(seq, line...)
			}
		case modeFastq:
			switch phase {
			case 0:
				if line[0] != '@' {
					return fmt.Errorf("%w, line %d: expected fastq header", ErrInvalidFormat, i+1)
				}
				name = string(bytes.TrimSpace(line[1:]))
				phase = 1
			case 1:
				if err := emit(name, line); err != nil {
					return err
				}
				phase = 2
			case 2:
				if line[0] != '+' {
					return fmt.Errorf("%w, line %d: expected fastq separator", ErrInvalidFormat, i+1)
				}
				phase = 3
			case 3:
				phase = 0
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error scanning sequence input, %w", err)
	}
	if mode == modeFastq && phase != 0 {
		return fmt.Errorf("%w, truncated fastq record %s", ErrInvalidFormat, name)
	}
	if mode == modeFasta && started {
		return emit(name, seq)
	}
	return nil
}

// ReadFileList reads one input path per line; blank lines and '#' comments
// are skipped. An empty list is an error.
func ReadFileList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file list: %w", err)
	}
	files := make([]string, 0)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		files = append(files, line)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w, no input files listed in %s", ErrInvalidFile, path)
	}
	return files, nil
}
