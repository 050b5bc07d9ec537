package aaf

import "fmt"

// berLength decodes a BER length field at the start of data: either a
// single byte under 128 (the short form), or a byte with the high bit
// set giving the count of following big-endian length bytes (the long
// form). It returns the decoded length and the number of bytes the
// length field itself occupied (spec.md section 6, "BER length").
func berLength(data []byte) (length int, consumed int, err error) {
	if len(data) < 1 {
		return 0, 0, &BadFormatError{Message: "BER length: no data"}
	}
	first := data[0]
	if first <= 127 {
		return int(first), 1, nil
	}
	n := int(first &^ 0x80)
	if n > 8 {
		return 0, 0, &BadFormatError{Message: fmt.Sprintf("BER length: follower count %d exceeds the bound of 8", n)}
	}
	if n == 0 || len(data) < 1+n {
		return 0, 0, &BadFormatError{Message: fmt.Sprintf("BER length: need %d more bytes, have %d", n, len(data)-1)}
	}
	length = 0
	for i := 0; i < n; i++ {
		length = length<<8 | int(data[1+i])
	}
	return length, 1 + n, nil
}

// encodeBERLength renders length in BER form: the short single-byte form
// when it fits, otherwise the long form with the minimum number of
// big-endian length bytes.
func encodeBERLength(length int) []byte {
	if length <= 127 {
		return []byte{byte(length)}
	}
	var be []byte
	for v := length; v > 0; v >>= 8 {
		be = append([]byte{byte(v)}, be...)
	}
	return append([]byte{0x80 | byte(len(be))}, be...)
}
