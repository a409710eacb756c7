package performance

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MarshalSnapshotMsgpack encodes a snapshot in MessagePack.
//
// The document has the same fields as the JSON encoding, decimals are kept as
// strings and map keys are sorted, so identical snapshots give identical bytes.
func MarshalSnapshotMsgpack(s *PortfolioSnapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("cannot encode snapshot: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("cannot encode snapshot: %w", err)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("cannot encode snapshot to msgpack: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshotMsgpack decodes a snapshot encoded by MarshalSnapshotMsgpack.
func UnmarshalSnapshotMsgpack(data []byte) (*PortfolioSnapshot, error) {
	var doc map[string]any
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot from msgpack: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("cannot decode snapshot: %w", err)
	}
	s := new(PortfolioSnapshot)
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot: %w", err)
	}
	return s, nil
}
