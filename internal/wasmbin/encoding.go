package wasmbin

// Binary format constants from the WebAssembly 1.0 core specification:
// one constant per symbol, no generated tables.
var (
	magic   = []byte{0x00, 0x61, 0x73, 0x6D}
	version = []byte{0x01, 0x00, 0x00, 0x00}
)

const (
	sectionType     byte = 1
	sectionFunction byte = 3
	sectionExport   byte = 7
	sectionCode     byte = 10
)

const (
	valI32 byte = 0x7F
	valI64 byte = 0x7E
)

const exportFunc byte = 0x00

const (
	opBlock  byte = 0x02
	opLoop   byte = 0x03
	opIf       byte = 0x04
	opElse     byte = 0x05
	opEnd      byte = 0x0B
	opBr       byte = 0x0C
	opBrIf     byte = 0x0D
	opCall     byte = 0x10
	opLocalGet byte = 0x20
	opLocalSet byte = 0x21

	opI32Eqz byte = 0x45

	opI64Eqz byte = 0x50
	opI64Eq  byte = 0x51
	opI64Ne  byte = 0x52
	opI64LtS byte = 0x53
	opI64GtS byte = 0x55
	opI64LeS byte = 0x57
	opI64GeS byte = 0x59

	opI64Const byte = 0x42

	opI64Add  byte = 0x7C
	opI64Sub  byte = 0x7D
	opI64Mul  byte = 0x7E
	opI64DivS byte = 0x7F
	opI64RemS byte = 0x81
	opI64And  byte = 0x83
	opI64Or   byte = 0x84
	opI64Xor  byte = 0x85
	opI64Shl  byte = 0x86
	opI64ShrS byte = 0x87
)

const (
	blockTypeEmpty byte = 0x40
	blockTypeI64   byte = 0x7E
)

func encodeLEB128U(value uint64) []byte {
	if value == 0 {
		return []byte{0}
	}
	var result []byte
	for value > 0 {
		b := byte(value & 0x7F)
		value >>= 7
		if value > 0 {
			b |= 0x80
		}
		result = append(result, b)
	}
	return result
}

func encodeLEB128S(value int64) []byte {
	var result []byte
	more := true
	for more {
		b := byte(value & 0x7F)
		value >>= 7
		if (value == 0 && b&0x40 == 0) || (value == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		result = append(result, b)
	}
	return result
}

func encodeString(s string) []byte {
	out := encodeLEB128U(uint64(len(s)))
	return append(out, []byte(s)...)
}

func encodeSection(id byte, contents []byte) []byte {
	out := []byte{id}
	return append(out, encodeLengthPrefixed(contents)...)
}

// encodeLengthPrefixed prepends contents with its own LEB128 byte length,
// the encoding every function body and section payload shares.
func encodeLengthPrefixed(contents []byte) []byte {
	out := encodeLEB128U(uint64(len(contents)))
	return append(out, contents...)
}

func encodeVector(count int, items []byte) []byte {
	out := encodeLEB128U(uint64(count))
	return append(out, items...)
}
