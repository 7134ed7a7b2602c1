package main

import (
	"fmt"
	"os"

	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/endian"
	"github.com/arloliu/carve/format"
	"github.com/arloliu/carve/region"
	"github.com/arloliu/carve/section"
	"github.com/arloliu/carve/source"
)

// Kind names the container structure a file is read as.
type Kind string

const (
	KindHeader  Kind = "header"
	KindIndexed Kind = "indexed"
	KindTable   Kind = "table"
)

func parseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindHeader, KindIndexed, KindTable:
		return k, nil
	default:
		return "", fmt.Errorf("invalid kind: %q", s)
	}
}

type config struct {
	kind    Kind
	width   format.AddressWidth
	order   format.ByteOrder
	stream  bool
	entries bool
}

// Entry is one record or field in a report.
type Entry struct {
	Index  int   `json:"index"`
	Start  int64 `json:"start"`
	Length int64 `json:"length"`
}

// Report describes one inspected file.
type Report struct {
	File       string  `json:"file"`
	Kind       Kind    `json:"kind"`
	Width      string  `json:"width"`
	Order      string  `json:"order"`
	HostOrder  bool    `json:"host_order"`
	Size       int64   `json:"size"`
	Digest     string  `json:"digest"`
	HeaderSize int64   `json:"header_size,omitempty"`
	BodySize   int64   `json:"body_size,omitempty"`
	Records    int     `json:"records,omitempty"`
	RowSize    int64   `json:"row_size,omitempty"`
	Rows       int     `json:"rows,omitempty"`
	Columns    int     `json:"columns,omitempty"`
	Entries    []Entry `json:"entries,omitempty"`
	Duplicate  string  `json:"duplicate_of,omitempty"`
	Error      string  `json:"error,omitempty"`

	sum uint64
}

type closableSource interface {
	source.Source
	Close() error
}

func openSource(path string, stream bool) (closableSource, error) {
	if !stream {
		m, err := source.OpenMmap(path)
		if err != nil {
			return nil, err
		}

		return m, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	s, err := source.NewStreamSource(f, source.WithOwnership())
	if err != nil {
		f.Close()
		return nil, err
	}

	return s, nil
}

// inspectFile opens path and fills a report. Structural problems are
// recorded in the report; only I/O failures are returned as errors.
func inspectFile(path string, cfg config) (*Report, error) {
	src, err := openSource(path, cfg.stream)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	rep := &Report{File: path, Kind: cfg.kind, Width: cfg.width.String(), Order: cfg.order.String()}
	if err := inspectSource(src, cfg, rep); err != nil {
		rep.Error = err.Error()
	}

	return rep, nil
}

func inspectSource(src source.Source, cfg config, rep *Report) error {
	r := region.Whole(src)
	rep.Size = r.Len()

	sum, err := r.Digest()
	if err != nil {
		return err
	}
	rep.sum = sum
	rep.Digest = fmt.Sprintf("%016x", sum)

	switch cfg.width {
	case format.Width8:
		return inspect[uint8](r, cfg, rep)
	case format.Width16:
		return inspect[uint16](r, cfg, rep)
	case format.Width32:
		return inspect[uint32](r, cfg, rep)
	case format.Width64:
		return inspect[uint64](r, cfg, rep)
	default:
		return inspect[uint](r, cfg, rep)
	}
}

func inspect[T address.Word](r region.Region, cfg config, rep *Report) error {
	codec, err := address.NewCodec[T](address.WithByteOrder(cfg.order))
	if err != nil {
		return err
	}
	rep.HostOrder = endian.CompareNativeEndian(codec.Engine())

	switch cfg.kind {
	case KindIndexed:
		x, err := section.NewIndexedRegion(r, codec)
		if err != nil {
			return err
		}
		rep.HeaderSize = x.Index().Region().Len()
		rep.BodySize = x.Body().Len()
		rep.Records = x.Count()
		if cfg.entries {
			for i := range x.Count() {
				off, err := x.Index().Get(i)
				if err != nil {
					return err
				}
				rep.Entries = append(rep.Entries, Entry{Index: i, Start: off.Start, Length: off.Length})
			}
		}

	case KindTable:
		tbl, err := section.NewTableRegion(r, codec)
		if err != nil {
			return err
		}
		rep.HeaderSize = r.Len() - tbl.Body().Len()
		rep.BodySize = tbl.Body().Len()
		rep.RowSize = tbl.RowSize()
		rep.Rows = tbl.RowCount()
		rep.Columns = tbl.ColumnCount()
		if cfg.entries {
			fields, err := tbl.Layout().Fields()
			if err != nil {
				return err
			}
			for i, f := range fields {
				rep.Entries = append(rep.Entries, Entry{Index: i, Start: f.Start, Length: f.Length})
			}
		}

	default:
		head, body, err := section.NewHeader(r, codec).Split()
		if err != nil {
			return err
		}
		rep.HeaderSize = int64(codec.Width()) + head.Len()
		rep.BodySize = body.Len()
	}

	return nil
}
