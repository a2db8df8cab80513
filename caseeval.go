package netlist

// CaseMatches reports whether guard matches sel under the given case
// equality kind, per spec 4.C:
//
//	CaseEQ:  logical ==  — any Vx/Vz in either operand means no match.
//	CaseEQZ: Vz in either operand is don't-care; Vx is not.
//	CaseEQX: both Vx and Vz in either operand are don't-care.
func CaseMatches(kind CaseKind, sel, guard Vector) bool {
	w := sel.Width()
	if guard.Width() > w {
		w = guard.Width()
	}
	for i := 0; i < w; i++ {
		var sb, gb Bit4 = V0, V0
		if i < sel.Width() {
			sb = sel.Bits[i]
		}
		if i < guard.Width() {
			gb = guard.Bits[i]
		}
		switch kind {
		case CaseEQ:
			if !sb.isKnown() || !gb.isKnown() {
				return false
			}
			if sb != gb {
				return false
			}
		case CaseEQZ:
			if gb == Vz || sb == Vz {
				continue
			}
			if sb != gb {
				return false
			}
		case CaseEQX:
			if gb == Vz || gb == Vx || sb == Vz || sb == Vx {
				continue
			}
			if sb != gb {
				return false
			}
		}
	}
	return true
}
