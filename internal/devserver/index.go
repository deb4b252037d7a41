// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// ChunkSize is the chunk length in runes.
	ChunkSize = 400
	// ChunkOverlap is how many runes consecutive chunks share.
	ChunkOverlap = 50
	// TopK is how many chunks an answer draws from.
	TopK = 4
)

// Split cuts text into windows of size runes that overlap by overlap runes.
// Whitespace-only windows are dropped.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var out []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// bigrams returns the set of adjacent letter pairs in s, lowercased.
// Punctuation and spaces break a run.
func bigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	var prev rune = -1
	for _, r := range strings.ToLower(s) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			prev = -1
			continue
		}
		if prev != -1 {
			set[string([]rune{prev, r})] = struct{}{}
		}
		prev = r
	}
	return set
}

type scored struct {
	chunk Chunk
	score int
}

// Retrieve ranks chunks by bigram overlap with question and returns at most
// k chunks with a non-zero score.
func Retrieve(chunks []Chunk, question string, k int) []Chunk {
	q := bigrams(question)
	if len(q) == 0 {
		return nil
	}

	var hits []scored
	for _, c := range chunks {
		n := 0
		for bg := range bigrams(c.Content) {
			if _, ok := q[bg]; ok {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, scored{chunk: c, score: n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]Chunk, len(hits))
	for i, h := range hits {
		out[i] = h.chunk
	}
	return out
}
