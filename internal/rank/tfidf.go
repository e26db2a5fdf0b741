// Package rank scores corpus chunks against a query by lexical similarity.
package rank

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Select returns the topN corpus chunks most similar to query, highest
// similarity first, joined by single spaces. Similarity is cosine over
// TF-IDF vectors fitted on corpus plus query; the vocabulary is re-fitted
// on every call so weights track exactly the documents scored.
// An empty corpus yields an empty string.
func Select(query string, corpus []string, topN int) string {
	if len(corpus) == 0 || topN <= 0 {
		return ""
	}

	docs := make([][]string, 0, len(corpus)+1)
	for _, chunk := range corpus {
		docs = append(docs, tokenize(chunk))
	}
	docs = append(docs, tokenize(query))

	idf := inverseDocFreq(docs)
	vectors := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = weigh(doc, idf)
	}
	queryVec := vectors[len(vectors)-1]

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, len(corpus))
	for i := range corpus {
		scores[i] = scored{index: i, score: cosine(queryVec, vectors[i])}
	}
	// ties go to the later chunk, matching descending-index order
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].index > scores[j].index
	})

	if topN > len(scores) {
		topN = len(scores)
	}
	picked := make([]string, 0, topN)
	for _, s := range scores[:topN] {
		picked = append(picked, corpus[s.index])
	}
	return strings.Join(picked, " ")
}

// tokenize lowercases and keeps alphanumeric runs of two or more characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// inverseDocFreq computes smoothed IDF: ln((1+n)/(1+df)) + 1.
func inverseDocFreq(docs [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, tok := range doc {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for tok, count := range df {
		idf[tok] = math.Log((1+n)/(1+float64(count))) + 1
	}
	return idf
}

// weigh builds the L2-normalised TF-IDF vector for one document.
func weigh(doc []string, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64)
	for _, tok := range doc {
		vec[tok] += idf[tok]
	}
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for tok := range vec {
			vec[tok] /= norm
		}
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for tok, w := range a {
		dot += w * b[tok]
	}
	// vectors are already unit length
	return dot
}
