package lingoq

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// HashTexts computes the SHA-256 hash of an ordered batch of strings.
// The JSON encoding keeps boundaries between strings, so ["a|b"] and
// ["a", "b"] hash differently.
func HashTexts(texts []string) string {
	data, _ := json.Marshal(texts)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// CacheKey generates the cache key for a batch translated into targetLang.
func CacheKey(targetLang string, texts []string) string {
	return targetLang + ":" + HashTexts(texts)
}
