package chatsy

import (
	"iter"
	"maps"
)

// Accumulator folds a finite stream of Chunks into one aggregate, in arrival
// order. The zero value is ready to use. Not safe for concurrent use; feed it
// from a single consumer goroutine.
type Accumulator struct {
	started bool
	agg     Chunk
}

// Add folds the next fragment into the aggregate. It returns ErrProtocolViolation
// when the fragment's ID contradicts the stream's ID (see Combine); on error the
// aggregate keeps its pre-Add state and the stream should be abandoned.
func (a *Accumulator) Add(next Chunk) error {
	if !a.started {
		a.started = true
		a.agg = Chunk{ID: next.ID}
		mergeChunk(&a.agg, next)
		return nil
	}
	return Combine(&a.agg, next)
}

// Response returns the aggregate and whether any fragment was received.
// "No fragments" (false) is distinct from an aggregate with empty content.
func (a *Accumulator) Response() (Chunk, bool) {
	return a.agg, a.started
}

// Combine folds next into agg: content is concatenated in call order, non-empty
// metadata overwrites field-by-field (a fragment with no metadata never clears
// earlier metadata), and usage is summed elementwise when present.
//
// ID rules: when agg carries no ID yet, next's ID is adopted. Once set, a
// fragment with a missing or different ID is an ErrProtocolViolation: it
// belongs to another stream and must not be merged into this one.
func Combine(agg *Chunk, next Chunk) error {
	switch {
	case agg.ID == "":
		agg.ID = next.ID
	case next.ID == "":
		return protocolViolation("fragment missing response id (stream %q)", agg.ID)
	case next.ID != agg.ID:
		return protocolViolation("fragment id %q does not match stream %q", next.ID, agg.ID)
	}
	mergeChunk(agg, next)
	return nil
}

// mergeChunk applies content, metadata, and usage from next. ID handling is the
// caller's job. next's maps are copied, never aliased.
func mergeChunk(agg *Chunk, next Chunk) {
	agg.Content += next.Content
	if len(next.Meta) > 0 {
		if agg.Meta == nil {
			agg.Meta = make(map[string]any, len(next.Meta))
		}
		maps.Copy(agg.Meta, next.Meta)
	}
	if next.Usage != nil {
		if agg.Usage == nil {
			agg.Usage = &Usage{}
		}
		*agg.Usage = agg.Usage.Add(*next.Usage)
	}
}

// Accumulate drains a lazy fragment stream and returns the aggregate, or nil
// when the stream yields no fragments. The first stream error or protocol
// violation aborts the fold. The stream is consumed at most once and is not
// restarted.
func Accumulate(stream iter.Seq2[Chunk, error]) (*Chunk, error) {
	var acc Accumulator
	for chunk, err := range stream {
		if err != nil {
			return nil, err
		}
		if err := acc.Add(chunk); err != nil {
			return nil, err
		}
	}
	agg, ok := acc.Response()
	if !ok {
		return nil, nil
	}
	return &agg, nil
}
