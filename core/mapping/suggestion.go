package mapping

import (
	"encoding/json"
	"sort"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/agext/levenshtein"
	"go.uber.org/zap"

	"procost/internal/errors"
	"procost/internal/logging"
)

// SuggestionThreshold is the minimum confidence for a heuristic mapping
// suggestion to surface.
const SuggestionThreshold = 0.6

// Suggestion is one proposed field mapping awaiting review.
type Suggestion struct {
	SourceField             SourceField `json:"source_field"`
	TargetField             TargetField `json:"target_field"`
	ConfidenceScore         float64     `json:"confidence_score"`
	Reason                  string      `json:"reason"`
	SuggestedTransformation string      `json:"suggested_transformation,omitempty"`
}

// TransformationSuggestion is the strict schema for an externally suggested
// transformation. The payload arrives from an assistant call and is
// validated before anything trusts its shape.
type TransformationSuggestion struct {
	Confidence     float64  `json:"confidence"`
	Transformation string   `json:"transformation"`
	Explanation    string   `json:"explanation"`
	Category       string   `json:"category,omitempty"`
	Examples       []string `json:"examples,omitempty"`
}

// wireSuggestion is the tolerant decode target for suggestion payloads.
type wireSuggestion struct {
	SourceField             string  `json:"sourceField"`
	TargetField             string  `json:"targetField"`
	ConfidenceScore         float64 `json:"confidenceScore"`
	Reason                  string  `json:"reason"`
	SuggestedTransformation string  `json:"suggestedTransformation"`
}

// decodeLenient parses an assistant payload into v. Code fences are
// stripped, strict decoding is tried first, and repair runs only when
// strict decoding fails, so well-formed numbers keep their exact value.
func decodeLenient(raw []byte, v interface{}) error {
	text := stripCodeFences(string(raw))
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(repaired), v)
}

// stripCodeFences unwraps a markdown-fenced payload ("```json ... ```").
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeSuggestions parses an externally produced suggestion payload,
// then validates each entry: empty field names or a confidence outside
// [0,1] disqualify the entry. Invalid entries are dropped, not trusted.
func DecodeSuggestions(raw []byte, targetEntity string) ([]Suggestion, error) {
	var wire []wireSuggestion
	if err := decodeLenient(raw, &wire); err != nil {
		return nil, errors.Suggestion("suggestion payload failed to decode", err)
	}

	targets := TargetFields(targetEntity)
	var out []Suggestion
	for _, w := range wire {
		if w.SourceField == "" || w.TargetField == "" {
			logging.Warn("dropping suggestion with empty field name",
				zap.String("source", w.SourceField), zap.String("target", w.TargetField))
			continue
		}
		if w.ConfidenceScore < 0 || w.ConfidenceScore > 1 {
			logging.Warn("dropping suggestion with out-of-range confidence",
				zap.String("source", w.SourceField), zap.Float64("confidence", w.ConfidenceScore))
			continue
		}
		out = append(out, Suggestion{
			SourceField:             SourceField{Name: w.SourceField},
			TargetField:             resolveTarget(targets, w.TargetField),
			ConfidenceScore:         w.ConfidenceScore,
			Reason:                  w.Reason,
			SuggestedTransformation: w.SuggestedTransformation,
		})
	}
	return out, nil
}

func resolveTarget(targets []TargetField, name string) TargetField {
	for _, t := range targets {
		if t.Name == name {
			return t
		}
	}
	return TargetField{Name: name}
}

// DecodeTransformationSuggestion parses and validates a single
// transformation suggestion payload.
func DecodeTransformationSuggestion(raw []byte) (TransformationSuggestion, error) {
	var ts TransformationSuggestion
	if err := decodeLenient(raw, &ts); err != nil {
		return TransformationSuggestion{}, errors.Suggestion("transformation payload failed to decode", err)
	}
	if ts.Transformation == "" {
		return TransformationSuggestion{}, errors.New(errors.TypeSuggestion, "transformation payload has no expression")
	}
	if ts.Confidence < 0 || ts.Confidence > 1 {
		return TransformationSuggestion{}, errors.Newf(errors.TypeSuggestion, "confidence %v out of range", ts.Confidence)
	}
	return ts, nil
}

// patternGroups are token families that make two differently named fields
// likely to mean the same business concept.
var patternGroups = [][]string{
	{"email", "mail"},
	{"company", "organization", "organisation", "business"},
	{"name", "title"},
	{"phone", "tel", "mobile"},
	{"address", "location"},
	{"date", "time", "created", "updated"},
	{"amount", "price", "cost", "total"},
	{"quantity", "qty", "count"},
}

// FieldSimilarity scores how likely a source field maps onto a target
// field. Exact normalized matches score 1.0, containment 0.8, shared
// business-pattern tokens 0.7; anything else is edit-distance similarity
// scaled below the pattern tier.
func FieldSimilarity(source, target string) float64 {
	s := normalizeFieldName(source)
	t := normalizeFieldName(target)
	if s == "" || t == "" {
		return 0
	}
	if s == t {
		return 1.0
	}
	if strings.Contains(s, t) || strings.Contains(t, s) {
		return 0.8
	}
	for _, group := range patternGroups {
		if containsAnyToken(s, group) && containsAnyToken(t, group) {
			return 0.7
		}
	}
	return 0.6 * levenshtein.Similarity(s, t, nil)
}

func normalizeFieldName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func containsAnyToken(normalized string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(normalized, tok) {
			return true
		}
	}
	return false
}

// SuggestMappings produces heuristic suggestions by scoring every source
// field against every target field and keeping each source's best match at
// or above the threshold, sorted by confidence descending.
func SuggestMappings(sourceFields []SourceField, targetFields []TargetField) []Suggestion {
	var out []Suggestion
	for _, src := range sourceFields {
		var best *Suggestion
		for _, tgt := range targetFields {
			score := FieldSimilarity(src.Name, tgt.Name)
			if score < SuggestionThreshold {
				continue
			}
			if best == nil || score > best.ConfidenceScore {
				best = &Suggestion{
					SourceField:     src,
					TargetField:     tgt,
					ConfidenceScore: score,
					Reason:          similarityReason(score),
				}
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConfidenceScore > out[j].ConfidenceScore
	})
	return out
}

func similarityReason(score float64) string {
	switch {
	case score >= 1.0:
		return "field names match exactly"
	case score >= 0.8:
		return "one field name contains the other"
	case score >= 0.7:
		return "field names share a business pattern"
	default:
		return "field names are closely spelled"
	}
}
