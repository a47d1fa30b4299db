// Package sidetable encodes the control transfer of each branch of a function body into one packed 64-bit Entry.
//
// A side table is built once per function while validating it and is read-only afterwards. The interpreter keeps
// a side-table pointer (stp) next to its instruction pointer (ip): every branching instruction owns entries at
// consecutive positions in program order, so the entry of the next branch is always at stp and no branch ever
// needs to scan the body or the table.
//
// Branch semantics:
//   - DeltaIP is relative to the byte right after the branching opcode (br, br_if, br_table, if and else).
//   - DeltaSTP is relative to the position of the entry being used.
//   - ValCnt values are kept on top of the stack and the PopCnt values below them are discarded.
//   - A br_if that is not taken, and an if whose condition holds, move stp by one.
//   - A br_table with n labels owns n+1 entries, the last one for the default label.
package sidetable

import (
	"fmt"

	"github.com/embedwasm/interp/internal/bitpack"
	"github.com/embedwasm/interp/internal/mode"
)

// The bit fields of an Entry.
const (
	maskDeltaIP  uint64 = 0x3f_ffff      // 22 bits, signed
	maskDeltaSTP uint64 = 0xff_ffc0_0000 // 18 bits, signed
	maskValCnt   uint64 = 0x3ff << 40    // 10 bits
	maskPopCnt   uint64 = 0x3fff << 50   // 14 bits
)

// Entry is a packed View.
type Entry uint64

// View is the unpacked form of an Entry.
type View struct {
	DeltaIP  int32
	DeltaSTP int32
	ValCnt   uint32
	PopCnt   uint32
}

// String implements fmt.Stringer
func (v View) String() string {
	return fmt.Sprintf("{ip%+d stp%+d val=%d pop=%d}", v.DeltaIP, v.DeltaSTP, v.ValCnt, v.PopCnt)
}

// New packs view or returns an UnsupportedError with mode.ReasonSideTable when a field does not fit.
func New(view View) (Entry, error) {
	ip, ok1 := bitpack.IntoSignedField(maskDeltaIP, int64(view.DeltaIP))
	stp, ok2 := bitpack.IntoSignedField(maskDeltaSTP, int64(view.DeltaSTP))
	val, ok3 := bitpack.IntoField(maskValCnt, uint64(view.ValCnt))
	pop, ok4 := bitpack.IntoField(maskPopCnt, uint64(view.PopCnt))
	if !(ok1 && ok2 && ok3 && ok4) {
		return 0, mode.Check{}.Unsupported(mode.ReasonSideTable)
	}
	return Entry(ip | stp | val | pop), nil
}

// View unpacks e.
func (e Entry) View() View {
	return View{
		DeltaIP:  int32(bitpack.FromSignedField(maskDeltaIP, uint64(e))),
		DeltaSTP: int32(bitpack.FromSignedField(maskDeltaSTP, uint64(e))),
		ValCnt:   uint32(bitpack.FromField(maskValCnt, uint64(e))),
		PopCnt:   uint32(bitpack.FromField(maskPopCnt, uint64(e))),
	}
}

// Branch is the source of a branch, recorded before its target is known.
type Branch struct {
	// IP is the offset right after the branching opcode.
	IP int
	// STP is the position of the entry in the side table.
	STP int
	// Height is the operand stack height at the branch, already reduced by any operand the branch consumes.
	Height int
}

// Target is the destination of a branch.
type Target struct {
	IP, STP int
	// Height is the operand stack height at the target, not counting the values kept by the branch.
	Height int
	// ValCnt is the arity of the label.
	ValCnt int
}

// Resolve computes the entry for a branch from source to target.
func Resolve(source Branch, target Target) (Entry, error) {
	pop := source.Height - target.Height - target.ValCnt
	if pop < 0 {
		// Unreachable code has a polymorphic stack; the entry is never used.
		pop = 0
	}
	deltaIP, deltaSTP := target.IP-source.IP, target.STP-source.STP
	if int(int32(deltaIP)) != deltaIP || int(int32(deltaSTP)) != deltaSTP || target.ValCnt > 0xffff_ffff || pop > 0xffff_ffff {
		return 0, mode.Check{}.Unsupported(mode.ReasonSideTable)
	}
	return New(View{
		DeltaIP:  int32(deltaIP),
		DeltaSTP: int32(deltaSTP),
		ValCnt:   uint32(target.ValCnt),
		PopCnt:   uint32(pop),
	})
}
