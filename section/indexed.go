package section

import (
	"iter"

	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/format"
	"github.com/arloliu/carve/region"
)

// IndexedRegion is a header holding a PartitionIndex followed by the
// concatenated records it indexes.
type IndexedRegion[T address.Word] struct {
	index PartitionIndex[T]
	body  region.Region
}

// NewIndexedRegion parses and validates an indexed region from r.
func NewIndexedRegion[T address.Word](r region.Region, codec address.Codec[T]) (IndexedRegion[T], error) {
	h := NewHeader(r, codec)
	table, err := h.Table()
	if err != nil {
		return IndexedRegion[T]{}, errs.InvalidWrap("indexed region", err, "header")
	}

	body, err := r.Sub(table.Len(), format.ToEnd)
	if err != nil {
		return IndexedRegion[T]{}, errs.InvalidWrap("indexed region", err, "body")
	}

	index := NewPartitionIndex(table, body.Len(), codec)
	if err := index.Validate(); err != nil {
		return IndexedRegion[T]{}, errs.InvalidWrap("indexed region", err, "index")
	}

	return IndexedRegion[T]{index: index, body: body}, nil
}

// NewIndexedRegionWithIndex pairs body with an index the caller has already
// validated. Only the declared body length is checked.
func NewIndexedRegionWithIndex[T address.Word](body region.Region, index PartitionIndex[T]) (IndexedRegion[T], error) {
	if index.BodyLen() != body.Len() {
		return IndexedRegion[T]{}, errs.Invalid("indexed region", "index covers %d bytes but body has %d", index.BodyLen(), body.Len())
	}

	return IndexedRegion[T]{index: index, body: body}, nil
}

// Index returns the partition index.
func (x IndexedRegion[T]) Index() PartitionIndex[T] { return x.index }

// Body returns the concatenated records.
func (x IndexedRegion[T]) Body() region.Region { return x.body }

// Count returns the number of records.
func (x IndexedRegion[T]) Count() int { return x.index.Count() }

// Get returns record i.
func (x IndexedRegion[T]) Get(i int) (region.Region, error) {
	off, err := x.index.Get(i)
	if err != nil {
		return region.Region{}, err
	}

	return off.Apply(x.body)
}

// All iterates over the records in order. Iteration stops after the first error.
func (x IndexedRegion[T]) All() iter.Seq2[region.Region, error] {
	return func(yield func(region.Region, error) bool) {
		for i := range x.Count() {
			r, err := x.Get(i)
			if !yield(r, err) || err != nil {
				return
			}
		}
	}
}
