package mapping

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"procost/core/expr"
	"procost/internal/errors"
	"procost/internal/logging"
)

// MappingType categorizes how a mapped value is produced.
type MappingType string

const (
	// MappingDirect copies the source value unchanged. A mapping is
	// DIRECT exactly when its transformation rule is empty.
	MappingDirect MappingType = "DIRECT"

	// MappingTransformed applies a transformation expression.
	MappingTransformed MappingType = "TRANSFORMED"

	// MappingCalculated and MappingConditional are advisory categories
	// assigned when a compiled rule list is dominated by calculation or
	// condition rules. They behave exactly like TRANSFORMED.
	MappingCalculated  MappingType = "CALCULATED"
	MappingConditional MappingType = "CONDITIONAL"
)

// FieldMapping connects one source field to one target field, optionally
// through a transformation expression.
type FieldMapping struct {
	ID                 string      `json:"id"`
	SourceField        SourceField `json:"source_field"`
	TargetField        TargetField `json:"target_field"`
	TransformationRule string      `json:"transformation_rule,omitempty"`
	IsActive           bool        `json:"is_active"`
	ConfidenceScore    float64     `json:"confidence_score"`
	MappingType        MappingType `json:"mapping_type"`
}

// Model holds the active mappings and pending suggestions for one
// integration. It is a plain data structure with no internal concurrency;
// a single owner drives its transitions.
type Model struct {
	mappings    []FieldMapping
	suggestions []Suggestion
}

// NewModel returns an empty mapping model.
func NewModel() *Model {
	return &Model{}
}

// Mappings returns a copy of the active mapping list.
func (m *Model) Mappings() []FieldMapping {
	out := make([]FieldMapping, len(m.mappings))
	copy(out, m.mappings)
	return out
}

// Suggestions returns a copy of the pending suggestion set.
func (m *Model) Suggestions() []Suggestion {
	out := make([]Suggestion, len(m.suggestions))
	copy(out, m.suggestions)
	return out
}

// AddSuggestions appends suggestions to the pending set.
func (m *Model) AddSuggestions(suggestions []Suggestion) {
	m.suggestions = append(m.suggestions, suggestions...)
}

// find returns the active mapping for a (source, target) pair, if any.
func (m *Model) find(sourceName, targetName string) *FieldMapping {
	for i := range m.mappings {
		fm := &m.mappings[i]
		if fm.IsActive && fm.SourceField.Name == sourceName && fm.TargetField.Name == targetName {
			return fm
		}
	}
	return nil
}

// CreateMapping creates a direct mapping between two fields. Creating a
// pair that already has an active mapping is a no-op returning the
// existing mapping.
func (m *Model) CreateMapping(source SourceField, target TargetField) (FieldMapping, bool) {
	if existing := m.find(source.Name, target.Name); existing != nil {
		return *existing, false
	}
	fm := FieldMapping{
		ID:              uuid.New().String(),
		SourceField:     source,
		TargetField:     target,
		IsActive:        true,
		ConfidenceScore: 1.0,
		MappingType:     MappingDirect,
	}
	m.mappings = append(m.mappings, fm)
	logging.Debug("created field mapping",
		zap.String("source", source.Name), zap.String("target", target.Name))
	return fm, true
}

// AcceptSuggestion turns a pending suggestion into an active mapping,
// carrying its confidence score over and removing it from the pending set.
func (m *Model) AcceptSuggestion(s Suggestion) FieldMapping {
	m.removeSuggestion(s)

	if existing := m.find(s.SourceField.Name, s.TargetField.Name); existing != nil {
		return *existing
	}
	fm := FieldMapping{
		ID:              uuid.New().String(),
		SourceField:     s.SourceField,
		TargetField:     s.TargetField,
		IsActive:        true,
		ConfidenceScore: s.ConfidenceScore,
		MappingType:     MappingDirect,
	}
	if s.SuggestedTransformation != "" {
		fm.TransformationRule = s.SuggestedTransformation
		fm.MappingType = MappingTransformed
	}
	m.mappings = append(m.mappings, fm)
	return fm
}

// RejectSuggestion removes a suggestion from the pending set with no other
// side effects.
func (m *Model) RejectSuggestion(s Suggestion) {
	m.removeSuggestion(s)
}

func (m *Model) removeSuggestion(s Suggestion) {
	kept := m.suggestions[:0]
	for _, existing := range m.suggestions {
		if existing.SourceField.Name == s.SourceField.Name && existing.TargetField.Name == s.TargetField.Name {
			continue
		}
		kept = append(kept, existing)
	}
	m.suggestions = kept
}

// SetTransformation sets a mapping's transformation expression. A
// non-empty rule makes the mapping TRANSFORMED; an empty rule reverts it
// to DIRECT.
func (m *Model) SetTransformation(id, rule string) error {
	fm := m.byID(id)
	if fm == nil {
		return errors.NotFound("field mapping", id)
	}
	fm.TransformationRule = rule
	if rule == "" {
		fm.MappingType = MappingDirect
	} else {
		fm.MappingType = MappingTransformed
	}
	return nil
}

// SetTransformationRules compiles a builder rule list onto a mapping and
// assigns the advisory category from the dominant rule type.
func (m *Model) SetTransformationRules(id string, rules []expr.TransformationRule) error {
	fm := m.byID(id)
	if fm == nil {
		return errors.NotFound("field mapping", id)
	}

	code := expr.CompileRules(rules)
	if code == "value" {
		fm.TransformationRule = ""
		fm.MappingType = MappingDirect
		return nil
	}

	fm.TransformationRule = code
	switch expr.Classify(rules) {
	case expr.RuleCalculation:
		fm.MappingType = MappingCalculated
	case expr.RuleCondition:
		fm.MappingType = MappingConditional
	default:
		fm.MappingType = MappingTransformed
	}
	return nil
}

// ClearTransformation removes a mapping's transformation, reverting it to
// DIRECT.
func (m *Model) ClearTransformation(id string) error {
	return m.SetTransformation(id, "")
}

// RemoveMapping deactivates a mapping by id.
func (m *Model) RemoveMapping(id string) error {
	fm := m.byID(id)
	if fm == nil {
		return errors.NotFound("field mapping", id)
	}
	fm.IsActive = false
	return nil
}

func (m *Model) byID(id string) *FieldMapping {
	for i := range m.mappings {
		if m.mappings[i].ID == id {
			return &m.mappings[i]
		}
	}
	return nil
}
