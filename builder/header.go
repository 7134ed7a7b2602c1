package builder

import (
	"io"

	"github.com/arloliu/carve/address"
)

// HeaderBuilder writes [H][head][body], where H = W + head size.
type HeaderBuilder[T address.Word] struct {
	codec address.Codec[T]
	head  Builder
	body  Builder
}

// NewHeaderBuilder returns a header builder. head and body may be nil.
func NewHeaderBuilder[T address.Word](codec address.Codec[T], head, body Builder) (*HeaderBuilder[T], error) {
	h := &HeaderBuilder[T]{codec: codec, body: body}
	if err := h.SetHead(head); err != nil {
		return nil, err
	}

	return h, nil
}

// SetHead replaces the head. It fails if W + head size is not addressable.
func (h *HeaderBuilder[T]) SetHead(head Builder) error {
	if _, err := address.FromRawOffset[T](int64(h.codec.Width()) + sizeOf(head)); err != nil {
		return err
	}
	h.head = head

	return nil
}

// SetBody replaces the body.
func (h *HeaderBuilder[T]) SetBody(body Builder) {
	h.body = body
}

// Codec returns the address codec.
func (h *HeaderBuilder[T]) Codec() address.Codec[T] { return h.codec }

// HeaderSize returns H, the offset at which the body starts.
func (h *HeaderBuilder[T]) HeaderSize() int64 {
	return int64(h.codec.Width()) + sizeOf(h.head)
}

func (h *HeaderBuilder[T]) Size() int64 {
	return h.HeaderSize() + sizeOf(h.body)
}

func (h *HeaderBuilder[T]) WriteTo(w io.Writer) (int64, error) {
	a, err := address.FromRawOffset[T](h.HeaderSize())
	if err != nil {
		return 0, err
	}

	n, err := w.Write(h.codec.Append(nil, a))
	total := int64(n)
	if err != nil {
		return total, err
	}

	written, err := writeChildren(w, h.head, h.body)

	return total + written, err
}
