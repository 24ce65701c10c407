package ppu

import (
	"bytes"
	"encoding/gob"
)

func encodeGob(v any) []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(v)
	return buf.Bytes()
}

func decodeGob(data []byte, v any) bool {
	if len(data) == 0 {
		return false
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v) == nil
}
