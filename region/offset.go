package region

import (
	"fmt"

	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/format"
)

// Offset is a (start, length) pair relative to an enclosing region.
type Offset struct {
	Start  int64
	Length int64 // format.ToEnd means through the end of the enclosing region
}

// At returns Offset{start, length}.
func At(start, length int64) Offset {
	return Offset{Start: start, Length: length}
}

// IsToEnd reports whether the offset extends to the end of its region.
func (o Offset) IsToEnd() bool {
	return o.Length == format.ToEnd
}

// End returns Start+Length, or format.ToEnd for open-ended offsets.
func (o Offset) End() int64 {
	if o.IsToEnd() {
		return format.ToEnd
	}

	return o.Start + o.Length
}

// Apply resolves the offset against r.
func (o Offset) Apply(r Region) (Region, error) {
	if o.Start < 0 || o.Start > r.length {
		return Region{}, errs.Bounds("region offset start", o.Start, r.length+1)
	}

	switch {
	case o.IsToEnd():
		return Region{src: r.src, start: r.start + o.Start, length: r.length - o.Start}, nil
	case o.Length < 0:
		return Region{}, errs.Invalid("region offset", "negative length %d", o.Length)
	case o.Length > r.length-o.Start:
		return Region{}, errs.BoundsRange("region offset", o.Start, o.Length, r.length)
	}

	return Region{src: r.src, start: r.start + o.Start, length: o.Length}, nil
}

func (o Offset) String() string {
	if o.IsToEnd() {
		return fmt.Sprintf("(%d, end)", o.Start)
	}

	return fmt.Sprintf("(%d, %d)", o.Start, o.Length)
}
