package msdoc

import "encoding/binary"

// Sprm is a single property modifier: an opcode and its operand bytes.
// Word 6 opcodes are one byte and are stored zero-extended.
type Sprm struct {
	Op  uint16
	Arg []byte
}

// Byte returns the first operand byte.
func (s Sprm) Byte() byte {
	if len(s.Arg) == 0 {
		return 0
	}
	return s.Arg[0]
}

// Uint16 returns the first two operand bytes.
func (s Sprm) Uint16() uint16 {
	if len(s.Arg) < 2 {
		return uint16(s.Byte())
	}
	return binary.LittleEndian.Uint16(s.Arg)
}

// Uint32 returns the first four operand bytes.
func (s Sprm) Uint32() uint32 {
	if len(s.Arg) < 4 {
		return uint32(s.Uint16())
	}
	return binary.LittleEndian.Uint32(s.Arg)
}

// Word 6 operand 길이 표기
const (
	lenVar  = -1 // 1바이트 길이 접두
	lenVar2 = -2 // 2바이트 길이 접두, 길이는 cb+1
	lenTabs = -3 // sprmPChgTabs
)

// word6SprmLen lists operand sizes of the Word 6 one-byte opcodes.
// 참조: Word 6.0 Binary File Format, sprm 정의 표
var word6SprmLen = map[byte]int{
	2: 2, 3: lenVar, 4: 1, 5: 1, 6: 1, 7: 1, 8: 1, 9: 1,
	10: 1, 11: 1, 12: lenVar, 13: 1, 14: 1, 15: lenVar,
	16: 2, 17: 2, 18: 2, 19: 2, 20: 4, 21: 2, 22: 2,
	23: lenTabs, 24: 1, 25: 1, 26: 2, 27: 2, 28: 2, 29: 1,
	30: 2, 31: 2, 32: 2, 33: 2, 34: 2, 35: 2, 36: 2, 37: 1,
	38: 2, 39: 2, 40: 2, 41: 2, 42: 2, 43: 2, 44: 1, 45: 2,
	46: 2, 47: 2, 48: 2, 49: 2, 50: 1, 51: 1, 52: lenVar,

	65: 1, 66: 1, 67: 1, 68: lenVar, 69: 2, 70: 4, 71: 1,
	72: 2, 73: 3, 74: lenVar, 75: 1, 77: lenVar, 79: lenVar,
	80: 2, 81: lenVar, 82: lenVar, 83: 0,
	85: 1, 86: 1, 87: 1, 88: 1, 89: 1, 90: 1, 91: 1, 92: 1,
	93: 2, 94: 1, 95: 3, 96: 2, 97: 2, 98: 1, 99: 2, 100: 1,
	101: 2, 102: 1, 103: lenVar, 104: 1, 105: lenVar, 106: lenVar,
	107: 2, 108: lenVar, 109: 2, 110: 2, 111: 2, 112: 2,
	113: lenVar, 115: lenVar, 116: lenVar, 117: 1, 118: 1,
	119: 1, 120: lenVar, 121: 2, 122: 2, 123: 2, 124: 2,

	131: 1, 132: 1, 133: lenVar, 136: 3, 137: 3, 138: 1, 139: 1,
	140: 2, 141: 2, 142: 1, 143: 1, 144: 2, 145: 2, 146: 1,
	147: 1, 148: 2, 149: 2, 150: 1, 151: 1, 152: 1, 153: 1,
	154: 2, 155: 2, 156: 2, 157: 2, 158: 1, 159: 1, 160: 2,
	161: 2, 162: 1, 163: 0, 164: 2, 165: 2, 166: 2, 167: 2,
	168: 2, 169: 2, 170: 2, 171: 2,

	182: 2, 183: 2, 184: 2, 185: 1, 186: 1, 187: 12,
	188: lenVar2, 189: 2, 190: lenVar2, 191: lenVar, 192: 4,
	193: 5, 194: 4, 195: 2, 196: 4, 197: 2, 198: 2, 199: 5, 200: 4,
}

// operandLen97 returns the operand size of a Word 97 sprm whose operand
// starts at arg. -1 means the size cannot be determined.
func operandLen97(op uint16, arg []byte) int {
	switch op {
	case sprmTDefTable, sprmTDefTable2:
		if len(arg) < 2 {
			return -1
		}
		return int(binary.LittleEndian.Uint16(arg)) + 1
	case sprmPChgTabs:
		return chgTabsLen(arg)
	}

	switch op >> 13 {
	case 0, 1:
		return 1
	case 2, 4, 5:
		return 2
	case 3:
		return 4
	case 7:
		return 3
	default: // 6: 가변 길이
		if len(arg) < 1 {
			return -1
		}
		return int(arg[0]) + 1
	}
}

// chgTabsLen sizes a sprmPChgTabs operand. cb == 255 means the real size
// has to be derived from the tab counts.
func chgTabsLen(arg []byte) int {
	if len(arg) < 1 {
		return -1
	}
	cb := int(arg[0])
	if cb != 255 {
		return cb + 1
	}
	if len(arg) < 2 {
		return -1
	}
	del := int(arg[1])
	addAt := 2 + 4*del
	if len(arg) <= addAt {
		return -1
	}
	add := int(arg[addAt])
	return 1 + 1 + 4*del + 1 + 3*add
}

func operandLen6(op byte, arg []byte) int {
	n, ok := word6SprmLen[op]
	if !ok {
		return -1
	}
	switch n {
	case lenVar:
		if len(arg) < 1 {
			return -1
		}
		return int(arg[0]) + 1
	case lenVar2:
		if len(arg) < 2 {
			return -1
		}
		return int(binary.LittleEndian.Uint16(arg)) + 1
	case lenTabs:
		return chgTabsLen(arg)
	}
	return n
}

// walkSprms calls fn for every sprm in grpprl until fn returns false.
// It returns true when the grpprl ended inside a sprm or held an opcode
// of unknown size; the sprms read before that point are still delivered.
func walkSprms(grpprl []byte, v Version, fn func(Sprm) bool) (truncated bool) {
	i := 0
	for i < len(grpprl) {
		var op uint16
		var n int
		if v == VersionWord6 {
			op = uint16(grpprl[i])
			i++
			n = operandLen6(byte(op), grpprl[i:])
		} else {
			if i+2 > len(grpprl) {
				return true
			}
			op = binary.LittleEndian.Uint16(grpprl[i:])
			i += 2
			n = operandLen97(op, grpprl[i:])
		}

		if v == VersionWord6 && op == 0 {
			// 패딩 바이트
			continue
		}
		if n < 0 || i+n > len(grpprl) {
			return true
		}
		if !fn(Sprm{Op: op, Arg: grpprl[i : i+n]}) {
			return false
		}
		i += n
	}
	return false
}
