package match

import (
	"math"
	"sort"
	"strings"

	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/profile"
)

// specificityGap is the spread beyond which specificity outranks raw score
// when ordering fuzzy candidates.
const specificityGap = 0.2

type fuzzyCandidate struct {
	key         string
	score       float64
	specificity float64
}

// fuzzyMatch scores every surviving identifier/key pair with two independent
// signals, containment overlap and a coarse character similarity, keeping
// both as candidates. Pairs that trip an exclusion rule never score.
func (m *Matcher) fuzzyMatch(f field.Descriptor, data profile.Data) (Result, bool) {
	var candidates []fuzzyCandidate
	keys := data.SortedKeys()

	for _, identifier := range f.Identifiers() {
		text := field.Normalize(identifier)
		if text == "" {
			continue
		}
		for _, key := range keys {
			normalized := field.Normalize(key)
			if normalized == "" {
				continue
			}
			if m.rules.Excluded(text, normalized) {
				continue
			}

			if strings.Contains(normalized, text) || strings.Contains(text, normalized) {
				if score := lengthRatio(normalized, text); score > containmentFloor {
					candidates = append(candidates, fuzzyCandidate{
						key:         key,
						score:       score,
						specificity: specificity(key, identifier),
					})
				}
			}
			if score := similarity(text, normalized); score > similarityFloor {
				candidates = append(candidates, fuzzyCandidate{
					key:         key,
					score:       score,
					specificity: specificity(key, identifier),
				})
			}
		}
	}

	if len(candidates) == 0 {
		return Result{}, false
	}

	rankCandidates(candidates)
	top := candidates[0]
	if top.score < fuzzyScoreFloor {
		return Result{}, false
	}
	confidence := int(math.Floor(top.score * 85))
	if confidence > fuzzyConfidenceCap {
		confidence = fuzzyConfidenceCap
	}
	return Result{Key: top.key, Confidence: confidence}, true
}

// rankCandidates orders best-first: specificity decides when two candidates
// sit far apart on it, raw score otherwise, with the lexicographically
// smaller key as the final deterministic tie-break.
func rankCandidates(candidates []fuzzyCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if math.Abs(a.specificity-b.specificity) > specificityGap {
			return a.specificity > b.specificity
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.key < b.key
	})
}

// similarity is a coarse, containment-favoring measure over normalized
// strings: when the longer contains the shorter the score is the plain
// length ratio, otherwise the count of the shorter string's characters
// findable anywhere in the longer one, over the longer length. It is not an
// edit distance and makes no ordering guarantees between unrelated pairs.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	found := 0
	for _, r := range shorter {
		if strings.ContainsRune(longer, r) {
			found++
		}
	}
	return float64(found) / float64(len(longer))
}

// specificity scores how precisely a profile key fits a field identifier:
// the min/max length ratio of their normalized forms, halved when a
// single-word identifier sits inside a compound key. A bare "name" field
// should not confidently claim "organizationName".
func specificity(key, fieldText string) float64 {
	nk, nf := field.Normalize(key), field.Normalize(fieldText)
	ratio := lengthRatio(nk, nf)
	if ratio == 0 {
		return 0
	}
	if !field.Compound(fieldText) && field.Compound(key) && strings.Contains(nk, nf) {
		return ratio * 0.5
	}
	return ratio
}

func lengthRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return float64(shorter) / float64(longer)
}
