package vmshim

import (
	"golang.org/x/text/encoding/unicode"
)

// CString reads the null-terminated string starting at ptr and decodes it as
// UTF-8. A nil mem yields "". The scan stops at the end of memory if no
// terminator is found, so it never reads out of bounds.
func CString(mem Memory, ptr uint32) string {
	if mem == nil {
		return ""
	}
	n := uint32(0)
	for {
		b, err := mem.ReadU8(ptr + n)
		if err != nil || b == 0 {
			break
		}
		n++
	}
	data, err := mem.Read(ptr, n)
	if err != nil {
		return ""
	}
	return DecodeUTF8(data)
}

// DecodeUTF8 decodes data as UTF-8, replacing ill-formed sequences with U+FFFD.
func DecodeUTF8(data []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
