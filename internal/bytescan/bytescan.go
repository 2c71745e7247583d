// Package bytescan provides the 256-entry byte-class lookup tables that
// drive the region, pattern, and counter packages, plus a CPU-capability
// dispatched separator-counting primitive adapted from the teacher's
// internal/simd package.
//
// The teacher's simd package backs its AVX2/AVX512 paths with hand-written
// amd64 assembly (ops_amd64.s) selected via golang.org/x/sys/cpu at init
// time. Authoring or modifying assembly without ever running the toolchain
// is unsafe, so this port keeps the capability-dispatch shape and the
// golang.org/x/sys/cpu dependency, but both dispatch targets are plain Go:
// a wide-word (8-bytes-at-a-time) loop for CPUs with wide SIMD registers,
// and a scalar byte loop otherwise.
package bytescan

import "golang.org/x/sys/cpu"

// IsCodeByte is a 256-byte table answering the Counter's "is code" filter
// (§4.5): printable ASCII excluding space, control characters, and DEL.
var IsCodeByte [256]bool

func init() {
	for b := 0; b < 256; b++ {
		IsCodeByte[b] = b > 0x20 && b < 0x7F
	}
}

// CountSeparators counts the occurrences of sep in data using the widest
// available scan loop, mirroring simd.ScanSeparators' capability dispatch.
func CountSeparators(data []byte, sep byte) uint64 {
	return scanImpl(data, sep)
}

var scanImpl = countSeparatorsScalar

func init() {
	if cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
		scanImpl = countSeparatorsWide
	}
}

func countSeparatorsScalar(data []byte, sep byte) uint64 {
	var n uint64
	for _, b := range data {
		if b == sep {
			n++
		}
	}
	return n
}

// countSeparatorsWide processes 8 bytes at a time using the classic SWAR
// "find the zero byte" trick, then mops up the remainder with the scalar
// loop. It is pure Go; the AVX2/ASIMD capability check above only decides
// whether this wider loop is worth the setup cost.
func countSeparatorsWide(data []byte, sep byte) uint64 {
	var n uint64
	const wordSize = 8
	repeated := uint64(sep) * 0x0101010101010101

	i := 0
	for ; i+wordSize <= len(data); i += wordSize {
		word := uint64(data[i]) | uint64(data[i+1])<<8 | uint64(data[i+2])<<16 | uint64(data[i+3])<<24 |
			uint64(data[i+4])<<32 | uint64(data[i+5])<<40 | uint64(data[i+6])<<48 | uint64(data[i+7])<<56
		xored := word ^ repeated
		// For each byte that was equal to sep, xored's byte is 0; count zero
		// bytes with the exact (borrow-free) haszero variant, then tally them.
		t := (xored & 0x7F7F7F7F7F7F7F7F) + 0x7F7F7F7F7F7F7F7F
		masked := ^(t | xored | 0x7F7F7F7F7F7F7F7F)
		for masked != 0 {
			n++
			masked &= masked - 1
		}
	}
	for ; i < len(data); i++ {
		if data[i] == sep {
			n++
		}
	}
	return n
}

// HintTable builds a 256-entry boolean table marking the first byte of every
// provided marker, the hint structure shared by region.Machine and
// pattern.Set.
func HintTable(markers [][]byte) [256]bool {
	var hint [256]bool
	for _, m := range markers {
		if len(m) > 0 {
			hint[m[0]] = true
		}
	}
	return hint
}
