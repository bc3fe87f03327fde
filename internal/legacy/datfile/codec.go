package datfile

import "fmt"

// Chunk encodings used by the legacy container.
const (
	EncodingNone byte = 0
	EncodingRLE  byte = 1
)

// DecodeRLE expands the legacy run-length encoding: a signed control
// byte n is followed by n+1 literal bytes when n >= 0, or by a single
// byte repeated 1-n times when n < 0.
func DecodeRLE(src []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(src); {
		n := int(int8(src[i]))
		i++
		if n >= 0 {
			end := i + n + 1
			if end > len(src) {
				return nil, fmt.Errorf("rle literal run past end of chunk: %w", ErrTruncated)
			}
			out = append(out, src[i:end]...)
			i = end
			continue
		}
		if i >= len(src) {
			return nil, fmt.Errorf("rle repeat run past end of chunk: %w", ErrTruncated)
		}
		count := 1 - n
		b := src[i]
		i++
		for j := 0; j < count; j++ {
			out = append(out, b)
		}
	}
	return out, nil
}

// EncodeRLE compresses data with the same run-length scheme. The
// output always decodes back to data; runs shorter than three bytes
// are stored literally.
func EncodeRLE(data []byte) []byte {
	var out []byte
	i := 0
	for i < len(data) {
		// Measure the run of identical bytes starting at i.
		run := 1
		for i+run < len(data) && data[i+run] == data[i] && run < 125 {
			run++
		}
		if run >= 3 {
			out = append(out, byte(int8(1-run)), data[i])
			i += run
			continue
		}
		// Collect literals until the next compressible run.
		start := i
		for i < len(data) && i-start < 125 {
			rem := 1
			for i+rem < len(data) && data[i+rem] == data[i] && rem < 3 {
				rem++
			}
			if rem >= 3 {
				break
			}
			i++
		}
		out = append(out, byte(i-start-1))
		out = append(out, data[start:i]...)
	}
	return out
}
