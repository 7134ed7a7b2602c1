// Package section interprets regions as the structural units of a carve
// container: header/body splits, offset tables, indexed regions and tables.
//
// Every view here is computed from a region.Region and an address.Codec[T]
// on access. Views copy nothing and cache nothing, so they are cheap to create
// and safe to share between goroutines whenever the underlying source is.
//
// # Header/Body
//
// The first address H of a region is the byte length of its header section,
// including that leading address:
//
//	┌──────────┬────────────────────────┬──────────────────────────┐
//	│ H (W)    │ header bytes (H − W)   │ body bytes (total − H)   │
//	└──────────┴────────────────────────┴──────────────────────────┘
//
// A header is valid when W ≤ H ≤ total.
//
// # Offset Tables
//
// An offset table is a run of N address slots. Slot 0 is a descriptor and
// slots 1..N−1 are cumulative boundaries. Entry i spans from boundary i (0 for
// the first entry) to boundary i+1 (the table's bound for the last entry).
//
// A PartitionIndex is a header whose slot 0 is N × W, the header's own size.
// Boundary i is the end offset of record i−1 within the body, and the body
// length bounds the last record:
//
//	records "HI", "", "ABCDE" with W = 4:
//	[12][2][2] HI ABCDE
//
// A RowLayout is the payload of a table header. Slot 0 is the row size R and
// slot i is the start offset of field i, with R bounding the last field:
//
//	field sizes 4, 1, 8:  [13][4][5]
//
// Boundaries must be non-decreasing and must not exceed the bound, which lets
// empty records and fields tile their range.
//
// # Validation
//
// Validate scans every slot in O(N). Get checks only the two boundaries it
// reads, so it never returns a range that is reversed or runs past the bound,
// but it does not prove the rest of the table is sound. Composite views built
// from a bare region (NewIndexedRegion, NewTableRegion) validate eagerly;
// constructors that take an already-built index or layout trust it.
package section
