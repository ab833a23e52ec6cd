package seqio

import (
	"errors"
	"io"
	"reflect"
	"slices"
	"strings"
	"testing"
)

type record struct {
	name string
	seq  string
}

func collect(t *testing.T, r io.Reader) ([]record, error) {
	t.Helper()
	records := make([]record, 0)
	err := Records(r, func(name string, seq []byte) error {
		records = append(records, record{name: name, seq: string(seq)})
		return nil
	})
	return records, err
}

func TestRecords(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    []record
		expectedErr error
	}{
		{
			name:  "fasta with wrapped sequence",
			input: ">chr1 sample\nACGTACGT\nACGT\n\n>chr2\nGGGTTT\n",
			expected: []record{
				{name: "chr1 sample", seq: "ACGTACGTACGT"},
				{name: "chr2", seq: "GGGTTT"},
			},
		},
		{
			name:  "fasta with crlf line endings",
			input: ">a\r\nACGT\r\n>b\r\nTTTT\r\n",
			expected: []record{
				{name: "a", seq: "ACGT"},
				{name: "b", seq: "TTTT"},
			},
		},
		{
			name:  "fastq",
			input: "@read1\nACGTACGTAC\n+\nIIIIIIIIII\n@read2\nTTTTGGGG\n+read2\nIIIIIIII\n",
			expected: []record{
				{name: "read1", seq: "ACGTACGTAC"},
				{name: "read2", seq: "TTTTGGGG"},
			},
		},
		{
			name:        "unknown leading byte",
			input:       "no header here\nACGT\n",
			expected:    []record{},
			expectedErr: ErrInvalidFormat,
		},
		{
			name:        "truncated fastq record",
			input:       "@read1\nACGT\n+\n",
			expected:    []record{{name: "read1", seq: "ACGT"}},
			expectedErr: ErrInvalidFormat,
		},
		{
			name:     "empty input",
			input:    "",
			expected: []record{},
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			records, err := collect(t, strings.NewReader(test.input))
			if !errors.Is(err, test.expectedErr) {
				t.Fatalf("error = %v, expected %v", err, test.expectedErr)
			}
			if !reflect.DeepEqual(records, test.expected) {
				t.Errorf("records = %v, expected %v", records, test.expected)
			}
		})
	}
}

func TestRecordsEmitError(t *testing.T) {
	sentinel := errors.New("stop")
	err := Records(strings.NewReader(">a\nACGT\n>b\nTTTT\n"), func(name string, seq []byte) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("emit error not propagated, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	testCases := []struct {
		name string
		path string
	}{
		{name: "plain", path: "testdata/basic.fa"},
		{name: "gzipped", path: "testdata/basic.fa.gz"},
	}
	expected := []record{
		{name: "chr1 sample", seq: "ACGTACGTACGT"},
		{name: "chr2", seq: "GGGTTT"},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			r, err := Open(test.path)
			if err != nil {
				t.Fatal(err)
			}
			defer func() {
				if err := r.Close(); err != nil {
					t.Error(err)
				}
			}()
			records, err := collect(t, r)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(records, expected) {
				t.Errorf("records = %v, expected %v", records, expected)
			}
		})
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open("testdata/does-not-exist.fa"); err == nil {
		t.Error("opening a missing file should fail")
	}
}

func TestReadFileList(t *testing.T) {
	files, err := ReadFileList("testdata/files.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(files, []string{"basic.fa", "basic.fq"}) {
		t.Errorf("files = %v, expected [basic.fa basic.fq]", files)
	}
	if _, err := ReadFileList("testdata/empty.txt"); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("empty list error = %v, expected ErrInvalidFile", err)
	}
}
