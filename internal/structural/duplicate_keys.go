package structural

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// DuplicateKeys scans the raw JSON text of a document's "CityObjects"
// object for repeated keys. encoding/json's map decoding silently keeps
// only the last occurrence of a duplicate key, so cjdoc.Document can
// never see this on its own — it has to be caught by walking the raw
// bytes before that information is lost, exactly as the reference
// implementation's duplicate-key gate does by parsing the document a
// second way.
//
// A non-empty result is meant to gate the schema check (a document with
// duplicate City Object ids is malformed enough that a schema pass over
// its already-collapsed decoding would be misleading).
func DuplicateKeys(raw []byte) []string {
	result := gjson.GetBytes(raw, "CityObjects")
	if !result.Exists() || !result.IsObject() {
		return nil
	}
	seen := make(map[string]bool)
	var dups []string
	result.ForEach(func(key, _ gjson.Result) bool {
		k := key.String()
		if seen[k] {
			dups = append(dups, fmt.Sprintf("CityObjects key %q is duplicated", k))
		}
		seen[k] = true
		return true
	})
	return dups
}
