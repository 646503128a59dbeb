package search

import (
	"crypto/sha256"
	"sort"
	"strings"
)

// tokenCharRatio is the chars-per-token heuristic used for budgeting.
const tokenCharRatio = 4

// dedupePrefixLen is how much normalized content feeds the dedup hash.
// Near-duplicate chunks across channels share a prefix even when one side
// was truncated differently.
const dedupePrefixLen = 200

// estimateTokens approximates the token count of a text.
func estimateTokens(text string) int {
	return len(text) / tokenCharRatio
}

// contentKey hashes a case-folded, trimmed content prefix so the same
// chunk surfacing from both channels counts once.
func contentKey(content string) [32]byte {
	norm := strings.ToLower(strings.TrimSpace(content))
	if len(norm) > dedupePrefixLen {
		norm = norm[:dedupePrefixLen]
	}
	return sha256.Sum256([]byte(norm))
}

// mergeResults deduplicates by content key and sorts by type priority,
// then distance ascending, then path for determinism. The first occurrence
// in merge order wins a dedup collision.
func mergeResults(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		pi, pj := typePriority(results[i].Type), typePriority(results[j].Type)
		if pi != pj {
			return pi < pj
		}
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Path < results[j].Path
	})

	seen := make(map[[32]byte]bool, len(results))
	merged := results[:0]
	for _, r := range results {
		key := contentKey(r.Content)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, r)
	}
	return merged
}

// truncateAtSentence cuts content to at most capTokens, preferring the last
// sentence boundary before the cap. A boundary in the first half is worse
// than a hard cut, so those are ignored.
func truncateAtSentence(content string, capTokens int) string {
	maxChars := capTokens * tokenCharRatio
	if len(content) <= maxChars {
		return content
	}

	cut := content[:maxChars]
	boundary := -1
	for _, sep := range []string{". ", ".\n", "! ", "? ", "\n\n"} {
		if i := strings.LastIndex(cut, sep); i > boundary {
			boundary = i + len(sep) - 1
		}
	}
	if boundary > maxChars/2 {
		return strings.TrimRight(cut[:boundary+1], " ")
	}
	return cut
}

// applyBudget truncates each result to the per-result cap and appends
// results in merge order until the global token budget would be exceeded.
// It returns the included results.
func applyBudget(results []Result, resultCap, budget int) []Result {
	used := make([]Result, 0, len(results))
	total := 0
	for _, r := range results {
		r.Content = truncateAtSentence(r.Content, resultCap)
		cost := estimateTokens(r.Content)
		if total+cost > budget {
			break
		}
		total += cost
		used = append(used, r)
	}
	return used
}
