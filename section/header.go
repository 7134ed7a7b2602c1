package section

import (
	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/format"
	"github.com/arloliu/carve/region"
)

// Header splits a region into a header section and a body.
type Header[T address.Word] struct {
	region region.Region
	codec  address.Codec[T]
}

// NewHeader returns the header/body view of r.
func NewHeader[T address.Word](r region.Region, codec address.Codec[T]) Header[T] {
	return Header[T]{region: r, codec: codec}
}

// Region returns the whole header+body region.
func (h Header[T]) Region() region.Region { return h.region }

// Codec returns the address codec of the view.
func (h Header[T]) Codec() address.Codec[T] { return h.codec }

// Size reads H, the header length including the leading address.
func (h Header[T]) Size() (int64, error) {
	return readAddress(h.region, 0, h.codec)
}

// Validate checks that W ≤ H ≤ Len().
func (h Header[T]) Validate() error {
	if !h.region.IsValid() {
		return errs.Invalid("header", "invalid region %s", h.region)
	}

	size, err := h.Size()
	if err != nil {
		return errs.InvalidWrap("header", err, "cannot read header size")
	}

	w := int64(h.codec.Width())
	if size < w || size > h.region.Len() {
		return errs.Invalid("header", "size %d outside [%d, %d]", size, w, h.region.Len())
	}

	return nil
}

// IsValid reports whether Validate succeeds.
func (h Header[T]) IsValid() bool {
	return h.Validate() == nil
}

// Split validates the header and returns the header payload
// [W, H) and the body [H, Len()).
func (h Header[T]) Split() (head, body region.Region, err error) {
	if err := h.Validate(); err != nil {
		return region.Region{}, region.Region{}, err
	}

	size, err := h.Size()
	if err != nil {
		return region.Region{}, region.Region{}, err
	}

	w := int64(h.codec.Width())
	if head, err = h.region.Sub(w, size-w); err != nil {
		return region.Region{}, region.Region{}, err
	}
	if body, err = h.region.Sub(size, format.ToEnd); err != nil {
		return region.Region{}, region.Region{}, err
	}

	return head, body, nil
}

// Head returns the header payload, excluding the leading address.
func (h Header[T]) Head() (region.Region, error) {
	head, _, err := h.Split()
	return head, err
}

// Body returns the bytes after the header.
func (h Header[T]) Body() (region.Region, error) {
	_, body, err := h.Split()
	return body, err
}

// Table returns the header including its leading address, [0, H).
func (h Header[T]) Table() (region.Region, error) {
	if err := h.Validate(); err != nil {
		return region.Region{}, err
	}

	size, err := h.Size()
	if err != nil {
		return region.Region{}, err
	}

	return h.region.Sub(0, size)
}
