package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Key kinds produced by [DefaultKeyer].
const (
	KindImage  = "image"
	KindLayout = "layout"
)

var kinds = []string{KindImage, KindLayout}

// hashKey returns "<kind>:<sha256(json(parts))>".
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Two feeds with the same
// descriptors in the same order hash the same.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// KindOf returns the kind of a key produced by a Keyer, looking past any
// scope prefix, or "" for keys it does not recognize.
func KindOf(key string) string {
	for _, kind := range kinds {
		if strings.HasPrefix(key, kind+":") || strings.Contains(key, ":"+kind+":") {
			return kind
		}
	}
	return ""
}
