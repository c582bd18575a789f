package driver

import (
	"github.com/aviddiviner/go-murmur"
)

// Fingerprint hashes a sequence of values with murmur32. Values are
// separated by a zero byte so that ["ab", "c"] and ["a", "bc"] differ.
func Fingerprint(values []string) uint32 {
	h := murmur.New32(0)
	sep := []byte{0}
	for _, v := range values {
		h.Write([]byte(v))
		h.Write(sep)
	}
	return h.Sum32()
}
