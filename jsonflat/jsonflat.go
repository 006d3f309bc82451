// Package jsonflat flattens nested JSON into path-keyed scalar entries and loads
// them as context documents, e.g. to feed structured tool output into a prompt.
package jsonflat

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Flatten parses data and returns its scalar leaves keyed by underscore-joined
// paths. Object keys extend the path with the key name. List elements extend it
// with the value of the field named by the element's "identifier" member when
// present, falling back to the element index:
//
//	{"key": [{"identifier": "text", "text": "v1"}]} → {"key_v1_text": "v1"}
//
// The "identifier" member itself is omitted from the output.
func Flatten(data []byte) (map[string]any, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	out := make(map[string]any)
	flatten(root, "", out)
	return out, nil
}

func flatten(node any, prefix string, out map[string]any) {
	switch v := node.(type) {
	case map[string]any:
		for key, inner := range v {
			if key == "identifier" {
				continue
			}
			flatten(inner, join(prefix, key), out)
		}
	case []any:
		for i, inner := range v {
			flatten(inner, join(prefix, elementKey(inner, i)), out)
		}
	default:
		if prefix != "" {
			out[prefix] = v
		}
	}
}

// elementKey resolves a list element's path segment: the value of the field its
// "identifier" member names, or the element index.
func elementKey(element any, index int) string {
	obj, ok := element.(map[string]any)
	if !ok {
		return strconv.Itoa(index)
	}
	idField, ok := obj["identifier"].(string)
	if !ok {
		return strconv.Itoa(index)
	}
	id, ok := obj[idField].(string)
	if !ok {
		return strconv.Itoa(index)
	}
	return id
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "_" + key
}

// Document is one flattened entry rendered as loadable context.
type Document struct {
	Content string
	Meta    map[string]any
}

// MetaFunc lets callers rewrite a document's metadata; it receives the flattened
// entry (single key/value) and the default metadata, and returns the final map.
type MetaFunc func(entry map[string]any, meta map[string]any) map[string]any

// Loader reads a JSON file and produces one Document per flattened entry,
// sorted by key for deterministic order. Meta carries "source" (the file path)
// and "seq_num" (1-based position).
type Loader struct {
	path   string
	metaFn MetaFunc
}

// NewLoader creates a Loader for path. metaFn may be nil.
func NewLoader(path string, metaFn MetaFunc) *Loader {
	return &Loader{path: path, metaFn: metaFn}
}

// Load reads, flattens, and renders the file's entries as documents.
func (l *Loader) Load() ([]Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}
	flat, err := Flatten(data)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	docs := make([]Document, 0, len(keys))
	for i, key := range keys {
		entry := map[string]any{key: flat[key]}
		content, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("render entry %q: %w", key, err)
		}
		meta := map[string]any{
			"source":  l.path,
			"seq_num": i + 1,
		}
		if l.metaFn != nil {
			meta = l.metaFn(entry, meta)
		}
		docs = append(docs, Document{Content: string(content), Meta: meta})
	}
	return docs, nil
}
