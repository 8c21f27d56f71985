package raster

// swapPairs reverses each adjacent pair of bytes in buf in place: for
// every i, buf[2i] and buf[2i+1] are exchanged. A trailing odd byte, if
// any, is left untouched. This corrects the byte order of 12- and 16-bit
// pixel elements read from a byte-swapped stream.
func swapPairs(buf []byte) {
	n := len(buf) - (len(buf) % 2)
	for i := 0; i < n; i += 2 {
		buf[i], buf[i+1] = buf[i+1], buf[i]
	}
}

// swapWords reverses the four bytes of each 32-bit word in buf in place.
// len(buf) must be a multiple of 4; a short trailing remainder is left
// untouched (callers in this package always pass whole-word slices).
func swapWords(buf []byte) {
	n := len(buf) - (len(buf) % 4)
	for i := 0; i < n; i += 4 {
		buf[i], buf[i+1], buf[i+2], buf[i+3] = buf[i+3], buf[i+2], buf[i+1], buf[i]
	}
}
