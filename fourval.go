package netlist

import (
	"strconv"
	"strings"
)

// Bit4 is one of the four values a Verilog bit can take.
type Bit4 byte

// The four bit values. V0 and V1 are the only two that participate in
// two-valued arithmetic; Vx and Vz propagate through most operators.
const (
	V0 Bit4 = 0
	V1 Bit4 = 1
	Vx Bit4 = 2
	Vz Bit4 = 3
)

func (b Bit4) String() string {
	switch b {
	case V0:
		return "0"
	case V1:
		return "1"
	case Vx:
		return "x"
	case Vz:
		return "z"
	}
	return "?"
}

// isKnown reports whether b is V0 or V1.
func (b Bit4) isKnown() bool { return b == V0 || b == V1 }

func (b Bit4) not() Bit4 {
	switch b {
	case V0:
		return V1
	case V1:
		return V0
	default:
		return Vx
	}
}

// Vector is an ordered, sized sequence of four-valued bits. Index 0 is the
// least significant bit. The declared width always equals len(Bits); callers
// must go through Resize/SignExtend/ZeroExtend rather than mutating Bits
// directly when changing width.
type Vector struct {
	Bits   []Bit4
	Signed bool
}

// NewVector returns a width-wide vector initialized to Vx.
func NewVector(width int) Vector {
	v := Vector{Bits: make([]Bit4, width)}
	for i := range v.Bits {
		v.Bits[i] = Vx
	}
	return v
}

// Width returns the bit count of v, which is always len(v.Bits).
func (v Vector) Width() int { return len(v.Bits) }

// Clone returns a deep copy of v.
func (v Vector) Clone() Vector {
	c := Vector{Bits: make([]Bit4, len(v.Bits)), Signed: v.Signed}
	copy(c.Bits, v.Bits)
	return c
}

// AllKnown reports whether every bit of v is V0 or V1.
func (v Vector) AllKnown() bool {
	for _, b := range v.Bits {
		if !b.isKnown() {
			return false
		}
	}
	return true
}

// HasXZ reports whether v has any Vx or Vz bit.
func (v Vector) HasXZ() bool { return !v.AllKnown() }

// VectorFromUint64 builds an unsigned vector of the given width from n,
// truncating high bits that don't fit.
func VectorFromUint64(n uint64, width int) Vector {
	v := NewVector(width)
	for i := 0; i < width; i++ {
		if n&(1<<uint(i)) != 0 {
			v.Bits[i] = V1
		} else {
			v.Bits[i] = V0
		}
	}
	return v
}

// Uint64 returns v as an unsigned integer, treating any Vx/Vz bit as 0.
// Callers that care about unknown bits should check AllKnown first.
func (v Vector) Uint64() uint64 {
	var n uint64
	for i, b := range v.Bits {
		if b == V1 {
			n |= 1 << uint(i)
		}
	}
	return n
}

// Resize returns v truncated or extended (per v.Signed) to width bits.
// Truncation that would discard a non-zero/non-x/z bit of a fully-known
// literal is the caller's responsibility to reject (see Expr.SetWidth).
func (v Vector) Resize(width int) Vector {
	if width == len(v.Bits) {
		return v.Clone()
	}
	r := Vector{Bits: make([]Bit4, width), Signed: v.Signed}
	n := width
	if n > len(v.Bits) {
		n = len(v.Bits)
	}
	copy(r.Bits, v.Bits[:n])
	if width > len(v.Bits) {
		fill := V0
		if v.Signed && len(v.Bits) > 0 {
			fill = v.Bits[len(v.Bits)-1]
		}
		for i := len(v.Bits); i < width; i++ {
			r.Bits[i] = fill
		}
	}
	return r
}

// bitOp applies a per-bit truth function to two equal-width vectors.
// Per spec 4.A, widths must match; result width = operand width.
func bitOp(a, b Vector, f func(Bit4, Bit4) Bit4) Vector {
	w := a.Width()
	r := NewVector(w)
	for i := 0; i < w; i++ {
		var bb Bit4 = Vx
		if i < b.Width() {
			bb = b.Bits[i]
		}
		r.Bits[i] = f(a.Bits[i], bb)
	}
	return r
}

func and4(a, b Bit4) Bit4 {
	if a == V0 || b == V0 {
		return V0
	}
	if a == V1 && b == V1 {
		return V1
	}
	return Vx
}

func or4(a, b Bit4) Bit4 {
	if a == V1 || b == V1 {
		return V1
	}
	if a == V0 && b == V0 {
		return V0
	}
	return Vx
}

func xor4(a, b Bit4) Bit4 {
	if !a.isKnown() || !b.isKnown() {
		return Vx
	}
	if a == b {
		return V0
	}
	return V1
}

// And performs a bitwise AND of two equal-width vectors.
func And(a, b Vector) Vector { return bitOp(a, b, and4) }

// Or performs a bitwise OR of two equal-width vectors.
func Or(a, b Vector) Vector { return bitOp(a, b, or4) }

// Xor performs a bitwise XOR of two equal-width vectors.
func Xor(a, b Vector) Vector { return bitOp(a, b, xor4) }

// Xnor performs a bitwise XNOR of two equal-width vectors.
func Xnor(a, b Vector) Vector { return bitOp(a, b, func(x, y Bit4) Bit4 { return xor4(x, y).not() }) }

// Nor performs a bitwise NOR of two equal-width vectors.
func Nor(a, b Vector) Vector { return bitOp(a, b, func(x, y Bit4) Bit4 { return or4(x, y).not() }) }

// Nand performs a bitwise NAND of two equal-width vectors.
func Nand(a, b Vector) Vector { return bitOp(a, b, func(x, y Bit4) Bit4 { return and4(x, y).not() }) }

// Not returns the per-bit negation of v. Vz, like Vx, negates to Vx.
func Not(v Vector) Vector {
	r := NewVector(v.Width())
	for i, b := range v.Bits {
		r.Bits[i] = b.not()
	}
	return r
}

// ShiftLeft shifts v left by amt bits, zero-filling from the right.
// Result width equals v's width (the operand, not the amount, sets the
// width per spec 4.A).
func ShiftLeft(v Vector, amt uint64) Vector {
	w := v.Width()
	r := NewVector(w)
	for i := range r.Bits {
		r.Bits[i] = V0
	}
	if amt >= uint64(w) {
		return r
	}
	for i := w - 1; i >= int(amt); i-- {
		r.Bits[i] = v.Bits[i-int(amt)]
	}
	return r
}

// ShiftRight shifts v right by amt bits, zero-filling from the left.
func ShiftRight(v Vector, amt uint64) Vector {
	w := v.Width()
	r := NewVector(w)
	for i := range r.Bits {
		r.Bits[i] = V0
	}
	if amt >= uint64(w) {
		return r
	}
	for i := 0; i < w-int(amt); i++ {
		r.Bits[i] = v.Bits[i+int(amt)]
	}
	return r
}

// Add performs a four-valued add. If withCarry is true, the result is
// width+1 bits wide with the carry out in the top bit; otherwise the
// result is width bits wide and any carry out is discarded. A Vx/Vz bit
// in either operand makes that result bit and every higher one (and the
// carry out) Vx; the bits below it are computed exactly (see addSub).
func Add(a, b Vector, withCarry bool) Vector {
	return addSub(a, b, false, withCarry)
}

// Sub performs a four-valued subtract (a - b), same width rules as Add.
func Sub(a, b Vector, withCarry bool) Vector {
	return addSub(a, b, true, withCarry)
}

// addSub ripples a full-adder chain across a and b (subtracting by adding
// b's complement with a carry-in of 1, the standard adder-subtractor
// construction spec 4/9's "adders lower to an LPM adder with carry chain"
// note describes), one bit at a time. Per spec 8's testable property 5,
// bit i of the result matches ordinary two's-complement arithmetic mod
// 2^w as long as no operand bit at or below i, and no carry produced
// below i, is unknown — the moment an unknown bit or carry is hit, that
// bit and every one after it (including the carry-out) go Vx, but bits
// below stay exact.
func addSub(a, b Vector, subtract, withCarry bool) Vector {
	w := a.Width()
	if b.Width() > w {
		w = b.Width()
	}
	outW := w
	if withCarry {
		outW = w + 1
	}
	av, bv := a.Resize(w), b.Resize(w)
	r := NewVector(outW)
	carry := V0
	if subtract {
		carry = V1
	}
	for i := 0; i < w; i++ {
		bi := bv.Bits[i]
		if subtract {
			bi = bi.not()
		}
		ai := av.Bits[i]
		if !ai.isKnown() || !bi.isKnown() || !carry.isKnown() {
			r.Bits[i] = Vx
			carry = Vx
			continue
		}
		sum := int(ai) + int(bi) + int(carry)
		r.Bits[i] = Bit4(sum & 1)
		if sum >= 2 {
			carry = V1
		} else {
			carry = V0
		}
	}
	if withCarry {
		r.Bits[w] = carry
	}
	return r
}

func allX(width int) Vector {
	v := NewVector(width)
	for i := range v.Bits {
		v.Bits[i] = Vx
	}
	return v
}

// Mul performs a four-valued multiply. Result width is a's width; any
// Vx/Vz in either operand produces an all-Vx result.
func Mul(a, b Vector) Vector {
	w := a.Width()
	if a.HasXZ() || b.HasXZ() {
		return allX(w)
	}
	av, bv := a.Uint64(), b.Uint64()
	mask := uint64(1)<<uint(w) - 1
	if w >= 64 {
		mask = ^uint64(0)
	}
	return VectorFromUint64((av*bv)&mask, w)
}

// Div performs a four-valued unsigned divide. Division by zero, like any
// Vx/Vz operand, yields all-Vx.
func Div(a, b Vector) Vector {
	w := a.Width()
	if a.HasXZ() || b.HasXZ() || b.Uint64() == 0 {
		return allX(w)
	}
	return VectorFromUint64(a.Uint64()/b.Uint64(), w)
}

// Mod performs a four-valued unsigned modulus. Division by zero, like any
// Vx/Vz operand, yields all-Vx.
func Mod(a, b Vector) Vector {
	w := a.Width()
	if a.HasXZ() || b.HasXZ() || b.Uint64() == 0 {
		return allX(w)
	}
	return VectorFromUint64(a.Uint64()%b.Uint64(), w)
}

// reduceToBool reduces a vector to a 0/1/x value (for &&, ||, !): 1 if
// any bit is 1 (even when other bits are Vx/Vz), else x if any bit is
// Vx/Vz, else 0.
func reduceToBool(v Vector) Bit4 {
	anyOne, anyX := false, false
	for _, b := range v.Bits {
		switch b {
		case V1:
			anyOne = true
		case V0:
		default:
			anyX = true
		}
	}
	if anyOne {
		return V1
	}
	if anyX {
		return Vx
	}
	return V0
}

// LogicalAnd implements Verilog's && : operands reduce to 0/1/x first.
func LogicalAnd(a, b Vector) Bit4 {
	ab, bb := reduceToBool(a), reduceToBool(b)
	if ab == V0 || bb == V0 {
		return V0
	}
	if ab == V1 && bb == V1 {
		return V1
	}
	return Vx
}

// LogicalOr implements Verilog's || : operands reduce to 0/1/x first.
func LogicalOr(a, b Vector) Bit4 {
	ab, bb := reduceToBool(a), reduceToBool(b)
	if ab == V1 || bb == V1 {
		return V1
	}
	if ab == V0 && bb == V0 {
		return V0
	}
	return Vx
}

// ReduceAnd folds v with & (AND), x-propagating.
func ReduceAnd(v Vector) Bit4 { return reduceFold(v, V1, and4) }

// ReduceOr folds v with | (OR), x-propagating.
func ReduceOr(v Vector) Bit4 { return reduceFold(v, V0, or4) }

// ReduceXor folds v with ^ (XOR), x-propagating.
func ReduceXor(v Vector) Bit4 { return reduceFold(v, V0, xor4) }

// ReduceNand folds v with & then negates.
func ReduceNand(v Vector) Bit4 { return ReduceAnd(v).not() }

// ReduceNor folds v with | then negates.
func ReduceNor(v Vector) Bit4 { return ReduceOr(v).not() }

// ReduceXnor folds v with ^ then negates.
func ReduceXnor(v Vector) Bit4 { return ReduceXor(v).not() }

func reduceFold(v Vector, identity Bit4, f func(Bit4, Bit4) Bit4) Bit4 {
	if len(v.Bits) == 0 {
		return identity
	}
	r := v.Bits[0]
	for _, b := range v.Bits[1:] {
		r = f(r, b)
	}
	return r
}

// EqLogical implements Verilog's == : any Vx/Vz anywhere makes the
// result Vx, else the bitwise-equal 0/1 result.
func EqLogical(a, b Vector) Bit4 {
	if a.HasXZ() || b.HasXZ() {
		return Vx
	}
	w := a.Width()
	if b.Width() > w {
		w = b.Width()
	}
	for i := 0; i < w; i++ {
		var ab, bb Bit4 = V0, V0
		if i < a.Width() {
			ab = a.Bits[i]
		}
		if i < b.Width() {
			bb = b.Bits[i]
		}
		if ab != bb {
			return V0
		}
	}
	return V1
}

// EqCase implements Verilog's === : Vx===Vx and Vz===Vz, result is
// always 0 or 1.
func EqCase(a, b Vector) Bit4 {
	w := a.Width()
	if b.Width() > w {
		w = b.Width()
	}
	for i := 0; i < w; i++ {
		var ab, bb Bit4 = V0, V0
		if i < a.Width() {
			ab = a.Bits[i]
		}
		if i < b.Width() {
			bb = b.Bits[i]
		}
		if ab != bb {
			return V0
		}
	}
	return V1
}

// NeLogical implements Verilog's != (negation of EqLogical).
func NeLogical(a, b Vector) Bit4 { return EqLogical(a, b).not() }

// NeCase implements Verilog's !== (negation of EqCase).
func NeCase(a, b Vector) Bit4 { return EqCase(a, b).not() }

func compareKnown(a, b Vector) (int, bool) {
	if a.HasXZ() || b.HasXZ() {
		return 0, false
	}
	w := a.Width()
	if b.Width() > w {
		w = b.Width()
	}
	if a.Signed && b.Signed {
		as, bs := int64(a.Resize(w).Uint64()), int64(b.Resize(w).Uint64())
		// sign-extend interpretation: top bit of the resized vector is the sign.
		as = signExtend(as, w)
		bs = signExtend(bs, w)
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}
	au, bu := a.Resize(w).Uint64(), b.Resize(w).Uint64()
	switch {
	case au < bu:
		return -1, true
	case au > bu:
		return 1, true
	default:
		return 0, true
	}
}

func signExtend(v int64, width int) int64 {
	if width >= 64 {
		return v
	}
	shift := 64 - width
	return (v << shift) >> shift
}

// Lt implements Verilog's < : Vx/Vz in either operand yields Vx.
func Lt(a, b Vector) Bit4 { return cmpBit(a, b, func(c int) bool { return c < 0 }) }

// Le implements Verilog's <=.
func Le(a, b Vector) Bit4 { return cmpBit(a, b, func(c int) bool { return c <= 0 }) }

// Gt implements Verilog's >.
func Gt(a, b Vector) Bit4 { return cmpBit(a, b, func(c int) bool { return c > 0 }) }

// Ge implements Verilog's >=.
func Ge(a, b Vector) Bit4 { return cmpBit(a, b, func(c int) bool { return c >= 0 }) }

func cmpBit(a, b Vector, ok func(int) bool) Bit4 {
	c, known := compareKnown(a, b)
	if !known {
		return Vx
	}
	if ok(c) {
		return V1
	}
	return V0
}

// Concat concatenates operands with operand 0 in the most-significant
// position, then repeats the whole concatenation n times (n==1 for a
// plain concat with no repeat).
func Concat(n int, operands ...Vector) Vector {
	total := 0
	for _, o := range operands {
		total += o.Width()
	}
	r := NewVector(total * n)
	pos := 0
	for rep := 0; rep < n; rep++ {
		// operand 0 is MSB: walk operands in reverse so bit 0 of the result
		// ends up as the LSB of the last operand.
		for i := len(operands) - 1; i >= 0; i-- {
			o := operands[i]
			copy(r.Bits[pos:pos+o.Width()], o.Bits)
			pos += o.Width()
		}
	}
	return r
}

// PartSelect returns bits [hi:lo] of v (inclusive, hi>=lo, 0-based).
// Out-of-range bits return Vx.
func PartSelect(v Vector, hi, lo int) Vector {
	if hi < lo {
		hi, lo = lo, hi
	}
	r := NewVector(hi - lo + 1)
	for i := lo; i <= hi; i++ {
		b := Vx
		if i >= 0 && i < v.Width() {
			b = v.Bits[i]
		}
		r.Bits[i-lo] = b
	}
	return r
}

// BitSelect returns the single bit at index idx, or Vx if out of range.
func BitSelect(v Vector, idx int) Bit4 {
	if idx < 0 || idx >= v.Width() {
		return Vx
	}
	return v.Bits[idx]
}

// String renders v MSB-first, e.g. "4'b10xz".
func (v Vector) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.Width()))
	b.WriteString("'b")
	for i := v.Width() - 1; i >= 0; i-- {
		b.WriteString(v.Bits[i].String())
	}
	return b.String()
}
