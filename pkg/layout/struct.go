package layout

import (
	"fmt"
)

// Member is one named slot of a Struct layout.
type Member[R any] interface {
	Name() string
	Span() int
	decodeInto(b []byte, off int, r *R) error
	encodeFrom(r *R, b []byte, off int) error
}

type bound[R, T any] struct {
	name  string
	field Field[T]
	at    func(*R) *T
}

// Bind ties a field to the record member returned by at.
func Bind[R, T any](name string, f Field[T], at func(*R) *T) Member[R] {
	return bound[R, T]{name: name, field: f, at: at}
}

func (m bound[R, T]) Name() string { return m.name }
func (m bound[R, T]) Span() int    { return m.field.Span() }

func (m bound[R, T]) decodeInto(b []byte, off int, r *R) error {
	v, err := m.field.Decode(b, off)
	if err != nil {
		return err
	}
	*m.at(r) = v
	return nil
}

func (m bound[R, T]) encodeFrom(r *R, b []byte, off int) error {
	_, err := m.field.Encode(*m.at(r), b, off)
	return err
}

type pad[R any] struct {
	name string
	n    int
}

// Pad reserves n bytes that are skipped on decode and zeroed on encode.
func Pad[R any](name string, n int) Member[R] { return pad[R]{name: name, n: n} }

func (p pad[R]) Name() string { return p.name }
func (p pad[R]) Span() int    { return p.n }

func (p pad[R]) decodeInto([]byte, int, *R) error { return nil }

func (p pad[R]) encodeFrom(_ *R, b []byte, off int) error {
	clear(b[off : off+p.n])
	return nil
}

// MemberInfo locates a member inside its parent layout.
type MemberInfo struct {
	Name   string
	Offset int
	Span   int
}

// Struct is an ordered composition of members. Its span is the sum of its
// members' spans, and it is itself a Field so layouts nest.
type Struct[R any] struct {
	name    string
	members []Member[R]
	offsets []int
	span    int
}

// NewStruct builds a record layout from members in on-chain order.
func NewStruct[R any](name string, members ...Member[R]) *Struct[R] {
	s := &Struct[R]{name: name, members: members, offsets: make([]int, len(members))}
	for i, m := range members {
		s.offsets[i] = s.span
		s.span += m.Span()
	}
	return s
}

func (s *Struct[R]) Name() string { return s.name }
func (s *Struct[R]) Span() int    { return s.span }

func (s *Struct[R]) Decode(b []byte, off int) (R, error) {
	var r R
	if err := checkBounds(s.name, b, off, s.span); err != nil {
		return r, err
	}
	for i, m := range s.members {
		if err := m.decodeInto(b, off+s.offsets[i], &r); err != nil {
			return r, fmt.Errorf("%s.%s: %w", s.name, m.Name(), err)
		}
	}
	return r, nil
}

func (s *Struct[R]) Encode(v R, b []byte, off int) (int, error) {
	if err := checkBounds(s.name, b, off, s.span); err != nil {
		return 0, err
	}
	for i, m := range s.members {
		if err := m.encodeFrom(&v, b, off+s.offsets[i]); err != nil {
			return 0, fmt.Errorf("%s.%s: %w", s.name, m.Name(), err)
		}
	}
	return s.span, nil
}

// DecodeBytes decodes a record from the start of b.
func (s *Struct[R]) DecodeBytes(b []byte) (R, error) { return s.Decode(b, 0) }

// EncodeBytes encodes v into a freshly allocated buffer of exactly Span bytes.
func (s *Struct[R]) EncodeBytes(v R) ([]byte, error) {
	b := make([]byte, s.span)
	if _, err := s.Encode(v, b, 0); err != nil {
		return nil, err
	}
	return b, nil
}

// Members lists every member with its offset, padding included.
func (s *Struct[R]) Members() []MemberInfo {
	out := make([]MemberInfo, len(s.members))
	for i, m := range s.members {
		out[i] = MemberInfo{Name: m.Name(), Offset: s.offsets[i], Span: m.Span()}
	}
	return out
}

// Offset returns the byte offset of the named member.
func (s *Struct[R]) Offset(name string) (int, bool) {
	for i, m := range s.members {
		if m.Name() == name {
			return s.offsets[i], true
		}
	}
	return 0, false
}

// AssertSpan reports a *SpanError when the layout is not exactly want bytes.
func (s *Struct[R]) AssertSpan(want int) error {
	if s.span != want {
		return &SpanError{Layout: s.name, Have: s.span, Want: want}
	}
	return nil
}
