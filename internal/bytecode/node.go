package bytecode

import "github.com/coregx/editre/internal/conv"

// Buffer is the growable byte stream a program is assembled into. It
// replaces the two-pass size-then-emit discipline of the engine this format
// is drawn from with a single growable slice plus in-place splicing for
// insert(), per the rewrite this spec's design notes explicitly sanction:
// the wire format's opcode semantics are preserved, byte-for-byte identity
// with any reference implementation is not a goal.
type Buffer struct {
	b []byte
}

// NewBuffer returns an empty node buffer.
func NewBuffer() *Buffer { return &Buffer{b: make([]byte, 0, 64)} }

// WrapBuffer returns a Buffer backed directly by code, for read-only
// traversal (e.g. post-compile start-byte analysis) of an already-assembled
// program. Mutating methods on the result mutate code in place.
func WrapBuffer(code []byte) *Buffer { return &Buffer{b: code} }

// Len returns the number of bytes emitted so far.
func (buf *Buffer) Len() int { return len(buf.b) }

// Truncate discards everything emitted after byte offset n, used when a
// literal run's last character must be un-emitted so a following quantifier
// can apply to it alone.
func (buf *Buffer) Truncate(n int) { buf.b = buf.b[:n] }

// Bytes returns the underlying byte slice. Callers must not retain it across
// further mutation of buf.
func (buf *Buffer) Bytes() []byte { return buf.b }

// EmitNode appends a 3-byte node header with a zero NEXT field and returns
// the node's starting offset.
func (buf *Buffer) EmitNode(op Op) int {
	pos := len(buf.b)
	buf.b = append(buf.b, byte(op), 0, 0)
	return pos
}

// EmitByte appends a single operand byte.
func (buf *Buffer) EmitByte(c byte) { buf.b = append(buf.b, c) }

// EmitUint16 appends a big-endian 16-bit operand.
func (buf *Buffer) EmitUint16(v uint16) {
	buf.b = append(buf.b, byte(v>>8), byte(v))
}

// EmitSpecial appends a node with a typed operand: for OpInitCount/OpIncCount
// just the index byte; for OpTestCount the index byte followed by the test
// value; for OpPosBehindOpen/OpNegBehindOpen four placeholder bytes later
// overwritten by SetBehindBounds once the body's length is known.
func (buf *Buffer) EmitSpecial(op Op, testVal uint16, index uint8) int {
	pos := buf.EmitNode(op)
	switch op {
	case OpInitCount, OpIncCount:
		buf.EmitByte(index)
	case OpTestCount:
		buf.EmitByte(index)
		buf.EmitUint16(testVal)
	case OpPosBehindOpen, OpNegBehindOpen:
		buf.EmitUint16(0)
		buf.EmitUint16(0)
	}
	return pos
}

// SetBehindBounds overwrites the four operand bytes following a
// POS/NEG_BEHIND_OPEN node at nodePos with the body's [lo, hi] match-length
// range.
func (buf *Buffer) SetBehindBounds(nodePos int, lo, hi uint16) {
	o := nodePos + NodeSize
	buf.b[o] = byte(lo >> 8)
	buf.b[o+1] = byte(lo)
	buf.b[o+2] = byte(hi >> 8)
	buf.b[o+3] = byte(hi)
}

// Op returns the opcode of the node at pos.
func (buf *Buffer) Op(pos int) Op { return Op(buf.b[pos]) }

// SetOp overwrites the opcode of the node at pos (used when a placeholder
// node is retargeted, e.g. BRANCH -> BACK during insert()).
func (buf *Buffer) SetOp(pos int, op Op) { buf.b[pos] = byte(op) }

// rawNext reads the raw NEXT field of the node at pos.
func (buf *Buffer) rawNext(pos int) uint16 {
	return uint16(buf.b[pos+1])<<8 | uint16(buf.b[pos+2])
}

func (buf *Buffer) setRawNext(pos int, v uint16) {
	buf.b[pos+1] = byte(v >> 8)
	buf.b[pos+2] = byte(v)
}

// NextPtr follows the NEXT field of the node at pos and returns the absolute
// offset of the node it points to, or -1 if the chain ends here.
func (buf *Buffer) NextPtr(pos int) int {
	off := buf.rawNext(pos)
	if off == 0 {
		return -1
	}
	if buf.Op(pos) == OpBack {
		return pos - int(off)
	}
	return pos + int(off)
}

// SetNext sets the NEXT field of the node at pos to point at target (an
// absolute offset). For OpBack nodes target must be <= pos.
func (buf *Buffer) SetNext(pos, target int) {
	if buf.Op(pos) == OpBack {
		buf.setRawNext(pos, conv.IntToUint16(pos-target))
	} else {
		buf.setRawNext(pos, conv.IntToUint16(target-pos))
	}
}

// Tail walks the NEXT chain starting at start until it finds the node whose
// NEXT field is unset (zero), then points that node's NEXT at target. This
// is how a BRANCH's body is hooked to what follows it once that is known.
func (buf *Buffer) Tail(start, target int) {
	scan := start
	for {
		next := buf.NextPtr(scan)
		if next < 0 {
			buf.SetNext(scan, target)
			return
		}
		scan = next
	}
}

// OffsetTail is Tail starting k bytes into the node at node (used to patch
// an operand-embedded NEXT field, e.g. the second NEXT baked into a {m,n}
// topology).
func (buf *Buffer) OffsetTail(node, k, target int) {
	buf.Tail(node+k, target)
}

// BranchTail is Tail applied to the body that follows the BRANCH node at
// node (node+NodeSize+k), but only if node itself is a BRANCH -- used while
// walking a disjunction's alternation chain to tie each alternative's body
// tail to the disjunction's common continuation.
func (buf *Buffer) BranchTail(node, k, target int) {
	if buf.Op(node) == OpBranch {
		buf.Tail(node+NodeSize+k, target)
	}
}

// Insert splices a new prefix node in front of insertAt, shifting every byte
// from insertAt onward to the right. Used when a quantifier is discovered
// only after its operand has already been emitted. The new node itself is
// left with its NEXT field unset (the caller ties it with Tail); the
// original content that used to start at insertAt has moved to
// insertAt+len(prefix) -- that shifted position is what Insert returns, so
// callers can re-tie to "the body as it now stands" the same way the
// original engine's insert() returns a pointer past the node it just wrote.
func (buf *Buffer) Insert(op Op, insertAt int, min, max uint16, index uint8) int {
	var operand []byte
	switch op {
	case OpBrace, OpLazyBrace:
		operand = []byte{byte(min >> 8), byte(min), byte(max >> 8), byte(max)}
	case OpInitCount:
		operand = []byte{index}
	}
	prefix := make([]byte, NodeSize+len(operand))
	prefix[0] = byte(op)
	copy(prefix[NodeSize:], operand)

	buf.b = append(buf.b, prefix...) // grow
	copy(buf.b[insertAt+len(prefix):], buf.b[insertAt:len(buf.b)-len(prefix)])
	copy(buf.b[insertAt:], prefix)
	return insertAt + len(prefix)
}
