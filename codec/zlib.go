// Package codec implements RFC 1950 (zlib) framing around a hand-written
// RFC 1951 (DEFLATE) decoder and a stored-block-only encoder. Every
// other package that needs zlib framing goes through Decode/Encode here
// rather than the standard library's compress/zlib, so that the object
// store's on-disk bytes are produced and parsed by code this module
// owns end to end.
package codec

import (
	"errors"
	"fmt"
)

// zlibCM is the only compression method zlib defines; CMF's low nibble
// must hold this value.
const zlibCM = 8

// ErrBadHeader is returned when the two leading zlib header bytes don't
// form a valid header (wrong compression method or failing the
// FCHECK modulo-31 constraint).
var ErrBadHeader = errors.New("codec: invalid zlib header")

// ErrPresetDictionary is returned for a zlib stream that references a
// preset dictionary (FDICT set): this implementation never sets or
// consumes one.
var ErrPresetDictionary = errors.New("codec: preset dictionaries are not supported")

// ErrChecksumMismatch is returned when the trailing Adler-32 checksum
// does not match the decompressed payload.
var ErrChecksumMismatch = errors.New("codec: adler-32 checksum mismatch")

// Decode inflates a zlib-framed byte stream: a 2-byte header, a raw
// DEFLATE stream, and a trailing big-endian Adler-32 checksum of the
// decompressed bytes.
func Decode(data []byte) ([]byte, error) {
	if len(data) < 6 { // 2-byte header + 4-byte trailer; inflate checks the DEFLATE data between them
		return nil, ErrBadHeader
	}
	cmf, flg := data[0], data[1]
	if cmf&0x0F != zlibCM {
		return nil, ErrBadHeader
	}
	if (int(cmf)*256+int(flg))%31 != 0 {
		return nil, ErrBadHeader
	}
	if flg&0x20 != 0 {
		return nil, ErrPresetDictionary
	}

	r := newBitReader(data[2:])
	payload, err := inflate(r)
	if err != nil {
		return nil, fmt.Errorf("codec: inflate: %w", err)
	}
	if payload == nil {
		payload = []byte{}
	}

	r.align()
	trailer, err := r.readBytes(4)
	if err != nil {
		return nil, fmt.Errorf("codec: reading adler-32 trailer: %w", err)
	}
	want := uint32(trailer[0])<<24 | uint32(trailer[1])<<16 | uint32(trailer[2])<<8 | uint32(trailer[3])
	if adler32(payload) != want {
		return nil, ErrChecksumMismatch
	}
	return payload, nil
}

// Encode compresses data into a zlib-framed stream. The DEFLATE payload
// is always a sequence of stored blocks: this implementation favors a
// simple, obviously-correct encoder over a space-optimal one, which
// matches the object store's append-only, write-once usage.
func Encode(data []byte) []byte {
	out := make([]byte, 0, len(data)+16)

	// CMF: CINFO=7 (32K window, conventional though unused by stored
	// blocks), CM=8 (deflate).
	cmf := byte(0x78)
	// FLG: FCHECK chosen so (CMF*256+FLG) % 31 == 0, FLEVEL left at 0.
	flg := byte(0)
	remainder := (int(cmf)*256 + int(flg)) % 31
	if remainder != 0 {
		flg += byte(31 - remainder)
	}
	out = append(out, cmf, flg)

	out = append(out, deflateStored(data)...)

	sum := adler32(data)
	out = append(out, byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))
	return out
}

// adler32 computes the Adler-32 checksum of data as defined by RFC 1950
// section 9.
func adler32(data []byte) uint32 {
	const modAdler = 65521
	a, b := uint32(1), uint32(0)
	for _, c := range data {
		a = (a + uint32(c)) % modAdler
		b = (b + a) % modAdler
	}
	return b<<16 | a
}
