package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"

	jsonpatch "github.com/evanphx/json-patch"
	json "github.com/goccy/go-json"

	jdto "github.com/jdto/jdto"
)

// Merge overlays the normalized form of b on top of a, shallowly: top-level
// keys from b win. Both values normalize under the same Context.
func (e *Engine) Merge(ctx context.Context, a, b any, contexts ...jdto.Context) (map[string]any, error) {
	am, err := e.Normalize(ctx, a, contexts...)
	if err != nil {
		return nil, err
	}
	bm, err := e.Normalize(ctx, b, contexts...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(am)+len(bm))
	for k, v := range am {
		out[k] = v
	}
	for k, v := range bm {
		out[k] = v
	}
	return out, nil
}

// MergeRecursive applies b as a JSON merge patch over a: nested objects merge
// key by key, null values in b delete keys, scalars and arrays replace.
func (e *Engine) MergeRecursive(ctx context.Context, a, b any, contexts ...jdto.Context) (map[string]any, error) {
	doc, err := e.NormalizeToJSON(ctx, a, contexts...)
	if err != nil {
		return nil, err
	}
	patch, err := e.NormalizeToJSON(ctx, b, contexts...)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, &jdto.Error{Code: jdto.CodeInvalidFormat, Message: "merge patch failed", Cause: err}
	}
	var out map[string]any
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, &jdto.Error{Code: jdto.CodeInvalidFormat, Message: "merged document is not an object", Cause: err}
	}
	return out, nil
}

// Diff returns the JSON merge patch turning a into b. An empty object means
// the two normalize identically.
func (e *Engine) Diff(ctx context.Context, a, b any, contexts ...jdto.Context) (map[string]any, error) {
	original, err := e.NormalizeToJSON(ctx, a, contexts...)
	if err != nil {
		return nil, err
	}
	modified, err := e.NormalizeToJSON(ctx, b, contexts...)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(original, modified)
	if err != nil {
		return nil, &jdto.Error{Code: jdto.CodeInvalidFormat, Message: "diff failed", Cause: err}
	}
	var out map[string]any
	if err := json.Unmarshal(patch, &out); err != nil {
		return nil, &jdto.Error{Code: jdto.CodeInvalidFormat, Message: "diff is not an object", Cause: err}
	}
	return out, nil
}

// Equal reports whether a and b normalize to the same canonical JSON bytes
// under the same Context.
func (e *Engine) Equal(ctx context.Context, a, b any, contexts ...jdto.Context) (bool, error) {
	ab, err := canonicalJSON(e, ctx, a, contexts)
	if err != nil {
		return false, err
	}
	bb, err := canonicalJSON(e, ctx, b, contexts)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}

// Hash returns the hex SHA-256 of the canonical JSON form, a stable identity
// for caching and change detection.
func (e *Engine) Hash(ctx context.Context, v any, contexts ...jdto.Context) (string, error) {
	b, err := canonicalJSON(e, ctx, v, contexts)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON normalizes and re-encodes through a map so key order is the
// encoder's sorted order, independent of struct declaration order.
func canonicalJSON(e *Engine, ctx context.Context, v any, contexts []jdto.Context) ([]byte, error) {
	m, err := e.Normalize(ctx, v, contexts...)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}
