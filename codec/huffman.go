package codec

import "errors"

// errInvalidCode is returned when a Huffman code does not map to any
// symbol in the table being decoded.
var errInvalidCode = errors.New("codec: invalid huffman code")

const maxBits = 15

// huffmanTable is a canonical Huffman code table, represented the way
// RFC 1951 itself describes the code assignment: a count of codes for
// each bit length, plus the symbols in the order their codes would be
// assigned. There is no pointer-based decode tree; decodeSymbol derives
// the mapping by walking bit lengths and tracking the first code
// assigned at each length, exactly as the codes were assigned in the
// first place.
type huffmanTable struct {
	counts  [maxBits + 1]int
	symbols []int
}

// newHuffmanTable builds a canonical Huffman table from a slice giving
// the code length (0 meaning "unused") assigned to each symbol.
func newHuffmanTable(lengths []int) (*huffmanTable, error) {
	h := &huffmanTable{symbols: make([]int, len(lengths))}
	for _, l := range lengths {
		if l > maxBits {
			return nil, errors.New("codec: huffman code length out of range")
		}
		h.counts[l]++
	}

	// offsets[l] is the index into h.symbols where symbols of length l
	// begin, once counts[0] (unused symbols) is excluded.
	var offsets [maxBits + 2]int
	for l := 1; l <= maxBits; l++ {
		offsets[l+1] = offsets[l] + h.counts[l]
	}
	for symbol, l := range lengths {
		if l == 0 {
			continue
		}
		h.symbols[offsets[l]] = symbol
		offsets[l]++
	}
	return h, nil
}

// decodeSymbol reads bits one at a time, extending the accumulated code
// and comparing it against the first code assigned at the current
// length, until it falls within the range of codes of that length.
func decodeSymbol(r *bitReader, h *huffmanTable) (int, error) {
	code, first, index := 0, 0, 0
	for length := 1; length <= maxBits; length++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		code |= bit
		count := h.counts[length]
		if code-first < count {
			return h.symbols[index+(code-first)], nil
		}
		index += count
		first += count
		first <<= 1
		code <<= 1
	}
	return 0, errInvalidCode
}

// fixedLiteralLengths returns the fixed literal/length code lengths
// defined by RFC 1951 section 3.2.6.
func fixedLiteralLengths() []int {
	lengths := make([]int, 288)
	for i := 0; i < 144; i++ {
		lengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		lengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		lengths[i] = 7
	}
	for i := 280; i < 288; i++ {
		lengths[i] = 8
	}
	return lengths
}

// fixedDistanceLengths returns the fixed distance code lengths defined
// by RFC 1951 section 3.2.6: all 30 codes are 5 bits wide.
func fixedDistanceLengths() []int {
	lengths := make([]int, 30)
	for i := range lengths {
		lengths[i] = 5
	}
	return lengths
}

// codeLengthOrder is the order in which code-length code lengths are
// transmitted for a dynamic Huffman block, per RFC 1951 section 3.2.7.
var codeLengthOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// lengthBase and lengthExtra give, for each length code 257..285
// (indexed 0..28), the base length and number of extra bits to read
// and add to it.
var lengthBase = [29]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
var lengthExtra = [29]int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

// distBase and distExtra give, for each of the 30 distance codes, the
// base distance and number of extra bits to read and add to it.
var distBase = [30]int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
var distExtra = [30]int{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}
