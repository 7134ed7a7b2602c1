package section

import (
	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/region"
)

// PartitionIndex is an offset table partitioning a body into variable-length
// records. The table region starts with the N × W count slot, followed by the
// N−1 cumulative end offsets of records 0..N−2.
type PartitionIndex[T address.Word] struct {
	table offsetTable[T]
}

// NewPartitionIndex interprets table as the index of a body of bodyLen bytes.
func NewPartitionIndex[T address.Word](table region.Region, bodyLen int64, codec address.Codec[T]) PartitionIndex[T] {
	return PartitionIndex[T]{table: offsetTable[T]{
		what:  "partition index",
		slots: table,
		codec: codec,
		bound: bodyLen,
	}}
}

// Region returns the table bytes.
func (p PartitionIndex[T]) Region() region.Region { return p.table.slots }

// BodyLen returns the length of the body the index partitions.
func (p PartitionIndex[T]) BodyLen() int64 { return p.table.bound }

// Count returns the number of records.
func (p PartitionIndex[T]) Count() int { return p.table.count() }

// Get returns the offset of record i within the body.
func (p PartitionIndex[T]) Get(i int) (region.Offset, error) {
	return p.table.get(i)
}

// Validate checks the count slot and every boundary.
func (p PartitionIndex[T]) Validate() error {
	if err := p.table.checkShape(); err != nil {
		return err
	}

	lead, err := p.table.slot(0)
	if err != nil {
		return errs.InvalidWrap("partition index", err, "cannot read count slot")
	}
	if lead != p.table.slots.Len() {
		return errs.Invalid("partition index", "count slot %d does not match table length %d", lead, p.table.slots.Len())
	}

	return p.table.validate()
}

// IsValid reports whether Validate succeeds.
func (p PartitionIndex[T]) IsValid() bool {
	return p.Validate() == nil
}
