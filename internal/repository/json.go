package repository

import (
	"encoding/json"
	"fmt"
)

// encodeList stores a string list as a JSONB array. nil is stored as [].
func encodeList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return b, nil
}

func decodeList(b []byte) ([]string, error) {
	list := []string{}
	if len(b) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
