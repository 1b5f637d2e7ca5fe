package deck

import "unsafe"

// int16ToBytes reinterprets a []int16 as its underlying []byte storage,
// with no copy. This relies on the host being little-endian, true of
// every platform this package targets (amd64, arm64); the importer
// subprocess protocol itself specifies little-endian PCM, so the two
// assumptions agree by construction.
func int16ToBytes(s []int16) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*2)
}
