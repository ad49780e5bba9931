// Package report flattens a diff result into a header plus a stream of
// line-oriented records for downstream consumers.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yuya-takeyama/sizescope/pkg/differ"
	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

// TypeCode is the symbol-type tag attached to every file-level record.
const TypeCode = "code"

// Header precedes all records and declares how many will follow.
type Header struct {
	Total    int  `json:"total"`
	DiffMode bool `json:"diff_mode"`
}

// Symbol is the per-file size entry inside a record.
type Symbol struct {
	Name  string `json:"n"`
	Bytes int64  `json:"b"`
	Gzip  int64  `json:"g"`
	Type  string `json:"t"`
	Unit  int    `json:"u"`
}

// Record is one emitted report line.
type Record struct {
	Path    string   `json:"p"`
	Symbols []Symbol `json:"s"`
}

// Stream yields the records of one comparison. It is finite and
// non-restartable; the header is available before the first Next call.
type Stream struct {
	header Header
	result differ.Result
	group  int
	pos    int
}

// Transform converts a diff result into a record stream.
//
// Records are emitted in the order added, removed, unchanged, changed, with
// stable path order inside each group. Consumers should rely on set
// membership and the header total only, but the order is kept stable because
// some renderers group visually by emission order.
func Transform(result differ.Result) *Stream {
	return &Stream{
		header: Header{Total: result.Total(), DiffMode: true},
		result: result,
	}
}

// Header returns the stream header. Valid before any record is consumed.
func (s *Stream) Header() Header {
	return s.header
}

// Next returns the next record, or ok=false once the stream is exhausted.
func (s *Stream) Next() (Record, bool) {
	for {
		switch s.group {
		case 0:
			if s.pos < len(s.result.Added) {
				f := s.result.Added[s.pos]
				s.pos++
				return addedRecord(f), true
			}
		case 1:
			if s.pos < len(s.result.Removed) {
				f := s.result.Removed[s.pos]
				s.pos++
				return removedRecord(f), true
			}
		case 2:
			if s.pos < len(s.result.Unchanged) {
				f := s.result.Unchanged[s.pos]
				s.pos++
				return unchangedRecord(f), true
			}
		case 3:
			if s.pos < len(s.result.Changed) {
				p := s.result.Changed[s.pos]
				s.pos++
				return changedRecord(p), true
			}
		default:
			return Record{}, false
		}
		s.group++
		s.pos = 0
	}
}

func addedRecord(f sizedata.FileRecord) Record {
	return Record{
		Path: f.Path,
		Symbols: []Symbol{
			{Name: f.Name(), Bytes: f.Size, Gzip: f.GzipSize, Type: TypeCode, Unit: 1},
		},
	}
}

func removedRecord(f sizedata.FileRecord) Record {
	return Record{
		Path: f.Path,
		Symbols: []Symbol{
			{Name: f.Name(), Bytes: -f.Size, Gzip: -f.GzipSize, Type: TypeCode, Unit: -1},
		},
	}
}

func unchangedRecord(f sizedata.FileRecord) Record {
	return Record{
		Path: f.Path,
		Symbols: []Symbol{
			{Name: f.Name(), Bytes: 0, Gzip: 0, Type: TypeCode, Unit: 1},
		},
	}
}

func changedRecord(p differ.ChangedPair) Record {
	return Record{
		Path: p.Current.Path,
		Symbols: []Symbol{
			{
				Name:  p.Current.Name(),
				Bytes: p.Current.Size - p.Previous.Size,
				Gzip:  p.Current.GzipSize - p.Previous.GzipSize,
				Type:  TypeCode,
				Unit:  1,
			},
		},
	}
}

// WriteNDJSON writes the header line followed by one JSON line per record.
func WriteNDJSON(w io.Writer, stream *Stream) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	if err := enc.Encode(stream.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for {
		record, ok := stream.Next()
		if !ok {
			break
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("write record %s: %w", record.Path, err)
		}
	}

	return bw.Flush()
}

// ReadNDJSON parses a report stream previously written by WriteNDJSON.
// Used by the viewer to load a differential report.
func ReadNDJSON(r io.Reader) (Header, []Record, error) {
	dec := json.NewDecoder(r)

	var header Header
	if err := dec.Decode(&header); err != nil {
		return Header{}, nil, fmt.Errorf("read header: %w", err)
	}
	if header.Total < 0 {
		return Header{}, nil, fmt.Errorf("read header: negative total %d", header.Total)
	}

	// The header is untrusted input; the record loop grows the slice as
	// records actually arrive.
	capHint := header.Total
	if capHint > 4096 {
		capHint = 4096
	}
	records := make([]Record, 0, capHint)
	for i := 0; i < header.Total; i++ {
		var record Record
		if err := dec.Decode(&record); err != nil {
			return Header{}, nil, fmt.Errorf("read record %d of %d: %w", i+1, header.Total, err)
		}
		records = append(records, record)
	}

	return header, records, nil
}
