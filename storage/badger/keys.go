package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/ragline/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "chkrec"
	chunkIDPrefix     = "chkid"
	chunkSeqName      = "chkseq"
)

// makeChunkKey generates a sequence-ordered key for a stored chunk.
// Format: prefix:seq (BigEndian so lexicographic sort matches numeric order)
func makeChunkKey(seq uint64) []byte {
	prefix := chunkRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeChunkIDKey generates a key for the chunk ID index.
func makeChunkIDKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkIDPrefix, id))
}

// encodeSeq packs a sequence slot for the ID index value.
func encodeSeq(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

func decodeSeq(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid sequence value length %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}
