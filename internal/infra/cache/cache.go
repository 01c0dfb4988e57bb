// Package cache stores parsed generation results keyed by a request
// fingerprint so repeated reads for unchanged inputs never trigger a paid
// completion call. The store is a plain key-value surface injected into the
// orchestrators: no TTL, no size bound, no eviction, last write wins.
//
// Storage errors never propagate: a failed read is a miss, a failed write
// is silently dropped and the caller simply regenerates next time.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"strings"
)

// Store is the key-value contract for cached generation payloads.
type Store interface {
	// Get returns the payload for fingerprint, or ok=false on miss
	// (including any underlying storage error).
	Get(ctx context.Context, fingerprint string) (payload []byte, ok bool)

	// Put stores payload under fingerprint, overwriting any previous value.
	Put(ctx context.Context, fingerprint string, payload []byte)
}

// Fingerprint derives the deterministic cache key for a feature invocation:
// the feature id plus a digest of the canonical JSON serialization of the
// input with every string field trimmed. Struct marshalling fixes the field
// order, so identical normalized inputs always map to the same key.
func Fingerprint(feature string, input any) string {
	canonical, err := json.Marshal(normalize(input))
	if err != nil {
		// Inputs are plain structs of strings; marshal cannot realistically
		// fail, but a degenerate key must still be deterministic.
		canonical = []byte(feature)
	}
	sum := sha256.Sum256(canonical)
	return feature + ":" + hex.EncodeToString(sum[:])
}

// normalize trims whitespace from every string field/element of input,
// walking structs, maps, and slices. Non-string leaves pass through.
func normalize(input any) any {
	return normalizeValue(reflect.ValueOf(input))
}

func normalizeValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String())
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return normalizeValue(v.Elem())
	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			out[fieldKey(t.Field(i))] = normalizeValue(v.Field(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeValue(iter.Value())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = normalizeValue(v.Index(i))
		}
		return out
	default:
		if !v.IsValid() {
			return nil
		}
		return v.Interface()
	}
}

func fieldKey(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}
