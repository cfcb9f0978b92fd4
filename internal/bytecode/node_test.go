package bytecode

import "testing"

func TestBufferEmitAndTail(t *testing.T) {
	buf := NewBuffer()
	a := buf.EmitNode(OpExactly)
	buf.EmitByte('x')
	buf.EmitByte(0)
	b := buf.EmitNode(OpEnd)

	buf.Tail(a, b)

	if got := buf.NextPtr(a); got != b {
		t.Fatalf("NextPtr(a) = %d, want %d", got, b)
	}
	// Tail again with a further target should fast-forward past the
	// already-tied node and retarget the true chain end.
	c := buf.EmitNode(OpNothing)
	buf.Tail(a, c)
	if got := buf.NextPtr(b); got != c {
		t.Fatalf("NextPtr(b) after re-tail = %d, want %d", got, c)
	}
}

func TestBufferInsertShiftsAndReturnsNewPosition(t *testing.T) {
	buf := NewBuffer()
	atom := buf.EmitNode(OpAny)
	tailMarker := buf.EmitNode(OpEnd)

	shifted := buf.Insert(OpStar, atom, 0, 0, 0)
	if shifted <= atom {
		t.Fatalf("Insert returned %d, want something after the inserted prefix (> %d)", shifted, atom)
	}
	if buf.Op(atom) != OpStar {
		t.Fatalf("Op(atom) = %v, want OpStar at the original offset", buf.Op(atom))
	}
	if buf.Op(shifted) != OpAny {
		t.Fatalf("Op(shifted) = %v, want OpAny (the atom moved here)", buf.Op(shifted))
	}
	if buf.NextPtr(shifted) != -1 {
		t.Fatalf("the shifted atom's own NEXT should be untouched by Insert")
	}
	_ = tailMarker
}

func TestBufferBranchTailTiesOnlyBranchBodies(t *testing.T) {
	buf := NewBuffer()
	branch := buf.EmitNode(OpBranch)
	buf.EmitNode(OpExactly)
	other := buf.EmitNode(OpNothing)
	ender := buf.EmitNode(OpEnd)

	buf.BranchTail(branch, 0, ender)
	if got := buf.NextPtr(branch + NodeSize); got != ender {
		t.Fatalf("BranchTail didn't tie the BRANCH body to ender: got %d, want %d", got, ender)
	}

	// BranchTail is a no-op when node isn't itself a BRANCH.
	buf.BranchTail(other, 0, ender)
	if got := buf.NextPtr(other); got != -1 {
		t.Fatalf("BranchTail should not touch a non-BRANCH node, got NextPtr = %d", got)
	}
}

func TestProgramOperandDropsNulTerminator(t *testing.T) {
	buf := NewBuffer()
	pos := buf.EmitNode(OpExactly)
	buf.EmitByte('a')
	buf.EmitByte('b')
	buf.EmitByte(0)

	operand := OperandOf(buf, pos)
	if string(operand) != "ab" {
		t.Fatalf("OperandOf = %q, want %q (NUL terminator must not leak into the operand)", operand, "ab")
	}
}
