package mapping

import (
	"testing"

	"procost/core/expr"
	"procost/internal/errors"
)

func enquiryTarget(t *testing.T, name string) TargetField {
	t.Helper()
	for _, tf := range TargetFields(EntityEnquiry) {
		if tf.Name == name {
			return tf
		}
	}
	t.Fatalf("no enquiry target field %q", name)
	return TargetField{}
}

func TestCreateMappingIdempotent(t *testing.T) {
	m := NewModel()
	src := SourceField{Name: "contact_email", Type: "email"}
	tgt := enquiryTarget(t, "customerEmail")

	first, created := m.CreateMapping(src, tgt)
	if !created {
		t.Fatal("first create must report a new mapping")
	}
	if first.MappingType != MappingDirect || !first.IsActive {
		t.Errorf("new mapping must be active and DIRECT, got %+v", first)
	}

	second, created := m.CreateMapping(src, tgt)
	if created {
		t.Error("second create for the same pair must be a no-op")
	}
	if second.ID != first.ID {
		t.Error("no-op create must return the existing mapping")
	}
	if len(m.Mappings()) != 1 {
		t.Errorf("expected one mapping, got %d", len(m.Mappings()))
	}
}

// transformationRule drives the DIRECT/TRANSFORMED invariant: non-empty
// rule means TRANSFORMED, clearing it reverts to DIRECT.
func TestMappingTypeInvariant(t *testing.T) {
	m := NewModel()
	fm, _ := m.CreateMapping(SourceField{Name: "qty"}, enquiryTarget(t, "requestedQuantity"))

	if err := m.SetTransformation(fm.ID, "parseFloat(value) * 1000"); err != nil {
		t.Fatalf("SetTransformation: %v", err)
	}
	if got := m.Mappings()[0]; got.MappingType != MappingTransformed {
		t.Errorf("expected TRANSFORMED, got %s", got.MappingType)
	}

	if err := m.ClearTransformation(fm.ID); err != nil {
		t.Fatalf("ClearTransformation: %v", err)
	}
	if got := m.Mappings()[0]; got.MappingType != MappingDirect || got.TransformationRule != "" {
		t.Errorf("expected DIRECT with empty rule, got %+v", got)
	}

	if err := m.SetTransformation("no-such-id", "value"); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestSetTransformationRulesClassification(t *testing.T) {
	m := NewModel()
	fm, _ := m.CreateMapping(SourceField{Name: "weight"}, enquiryTarget(t, "requestedQuantity"))

	rules := []expr.TransformationRule{
		{Type: expr.RuleCalculation, Operation: "multiply", Parameters: map[string]string{"factor": "1000"}},
	}
	if err := m.SetTransformationRules(fm.ID, rules); err != nil {
		t.Fatalf("SetTransformationRules: %v", err)
	}
	got := m.Mappings()[0]
	if got.MappingType != MappingCalculated {
		t.Errorf("expected CALCULATED, got %s", got.MappingType)
	}
	if got.TransformationRule != "parseFloat(value) * 1000" {
		t.Errorf("unexpected compiled rule %q", got.TransformationRule)
	}

	// An empty rule list compiles to the identity and reverts to DIRECT.
	if err := m.SetTransformationRules(fm.ID, nil); err != nil {
		t.Fatalf("SetTransformationRules(nil): %v", err)
	}
	if got := m.Mappings()[0]; got.MappingType != MappingDirect {
		t.Errorf("expected DIRECT after identity rules, got %s", got.MappingType)
	}
}

func TestAcceptAndRejectSuggestion(t *testing.T) {
	m := NewModel()
	s := Suggestion{
		SourceField:     SourceField{Name: "cust_email"},
		TargetField:     enquiryTarget(t, "customerEmail"),
		ConfidenceScore: 0.8,
		Reason:          "one field name contains the other",
	}
	other := Suggestion{
		SourceField:     SourceField{Name: "qty"},
		TargetField:     enquiryTarget(t, "requestedQuantity"),
		ConfidenceScore: 0.7,
	}
	m.AddSuggestions([]Suggestion{s, other})

	fm := m.AcceptSuggestion(s)
	if fm.ConfidenceScore != 0.8 {
		t.Errorf("confidence must carry over, got %v", fm.ConfidenceScore)
	}
	if fm.MappingType != MappingDirect {
		t.Errorf("suggestion without transformation must map DIRECT, got %s", fm.MappingType)
	}
	if len(m.Suggestions()) != 1 {
		t.Errorf("accepted suggestion must leave the pending set, got %d", len(m.Suggestions()))
	}

	m.RejectSuggestion(other)
	if len(m.Suggestions()) != 0 {
		t.Error("rejected suggestion must leave the pending set")
	}
	if len(m.Mappings()) != 1 {
		t.Error("rejection must not create mappings")
	}
}

func TestAcceptSuggestionWithTransformation(t *testing.T) {
	m := NewModel()
	fm := m.AcceptSuggestion(Suggestion{
		SourceField:             SourceField{Name: "order_date"},
		TargetField:             enquiryTarget(t, "deliveryDate"),
		ConfidenceScore:         0.9,
		SuggestedTransformation: "new Date(value).toISOString()",
	})
	if fm.MappingType != MappingTransformed {
		t.Errorf("expected TRANSFORMED, got %s", fm.MappingType)
	}
	if fm.TransformationRule == "" {
		t.Error("suggested transformation must carry onto the mapping")
	}
}

func TestFieldSimilarity(t *testing.T) {
	cases := []struct {
		source, target string
		want           float64
	}{
		{"customerName", "customer_name", 1.0},
		{"email", "customerEmail", 0.8},
		{"contactMail", "customerEmail", 0.7}, // shared email pattern
		{"orderCreated", "deliveryDate", 0.7}, // shared date/time pattern
	}
	for _, tc := range cases {
		if got := FieldSimilarity(tc.source, tc.target); got != tc.want {
			t.Errorf("FieldSimilarity(%q, %q) = %v, want %v", tc.source, tc.target, got, tc.want)
		}
	}

	if got := FieldSimilarity("zzz", "customerEmail"); got >= SuggestionThreshold {
		t.Errorf("unrelated names must score below the threshold, got %v", got)
	}
}

func TestSuggestMappings(t *testing.T) {
	sources := []SourceField{
		{Name: "customer_name"},
		{Name: "contact_email"},
		{Name: "xq7"},
	}
	got := SuggestMappings(sources, TargetFields(EntityEnquiry))

	if len(got) != 2 {
		t.Fatalf("expected two suggestions, got %v", got)
	}
	// Sorted by confidence descending: the exact name match first.
	if got[0].SourceField.Name != "customer_name" || got[0].TargetField.Name != "customerName" {
		t.Errorf("unexpected top suggestion %+v", got[0])
	}
	if got[0].ConfidenceScore < got[1].ConfidenceScore {
		t.Error("suggestions must be sorted by confidence descending")
	}
	for _, s := range got {
		if s.ConfidenceScore < SuggestionThreshold {
			t.Errorf("suggestion below threshold: %+v", s)
		}
	}
}

func TestDecodeSuggestions(t *testing.T) {
	// Single quotes and a trailing comma: repairable, then validated.
	raw := []byte(`[
		{'sourceField': 'cust_email', 'targetField': 'customerEmail', 'confidenceScore': 0.9, 'reason': 'match'},
		{'sourceField': '', 'targetField': 'customerName', 'confidenceScore': 0.9},
		{'sourceField': 'qty', 'targetField': 'requestedQuantity', 'confidenceScore': 1.5},
	]`)

	got, err := DecodeSuggestions(raw, EntityEnquiry)
	if err != nil {
		t.Fatalf("DecodeSuggestions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the two invalid entries dropped, got %v", got)
	}
	if got[0].SourceField.Name != "cust_email" {
		t.Errorf("unexpected suggestion %+v", got[0])
	}
	// A known target name resolves to the full descriptor.
	if got[0].TargetField.FieldPath != "customer.email" {
		t.Errorf("expected resolved target field, got %+v", got[0].TargetField)
	}
}

func TestDecodeSuggestionsFencedPayload(t *testing.T) {
	// Markdown-fenced but otherwise valid JSON must decode strictly, with
	// confidence kept at full precision.
	raw := []byte("```json\n[{\"sourceField\": \"qty\", \"targetField\": \"requestedQuantity\", \"confidenceScore\": 0.85, \"reason\": \"match\"}]\n```")
	got, err := DecodeSuggestions(raw, EntityEnquiry)
	if err != nil {
		t.Fatalf("DecodeSuggestions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one suggestion, got %v", got)
	}
	if got[0].ConfidenceScore != 0.85 {
		t.Errorf("confidence corrupted: got %v, want 0.85", got[0].ConfidenceScore)
	}
}

func TestDecodeTransformationSuggestion(t *testing.T) {
	raw := []byte("```json\n{\"confidence\": 0.85, \"transformation\": \"value.toUpperCase()\", \"explanation\": \"normalize codes\"}\n```")
	ts, err := DecodeTransformationSuggestion(raw)
	if err != nil {
		t.Fatalf("DecodeTransformationSuggestion: %v", err)
	}
	if ts.Transformation != "value.toUpperCase()" || ts.Confidence != 0.85 {
		t.Errorf("unexpected result %+v", ts)
	}

	if _, err := DecodeTransformationSuggestion([]byte(`{"confidence": 2.0, "transformation": "value"}`)); err == nil {
		t.Error("out-of-range confidence must be rejected")
	}
	if _, err := DecodeTransformationSuggestion([]byte(`{"confidence": 0.5}`)); err == nil {
		t.Error("missing transformation must be rejected")
	}
}

func TestSniffType(t *testing.T) {
	cases := []struct {
		sample string
		want   string
	}{
		{"2024-01-15", "date"},
		{"2024-01-15T10:30:00Z", "date"},
		{"ops@nordfjord.no", "email"},
		{"https://example.com/api", "url"},
		{"+47 22 33 44 55", "phone"},
		{"1250.5", "number"},
		{"-42", "number"},
		{"Atlantic salmon, head on", "string"},
		{"", "string"},
	}
	for _, tc := range cases {
		if got := SniffType(tc.sample); got != tc.want {
			t.Errorf("SniffType(%q) = %q, want %q", tc.sample, got, tc.want)
		}
	}
}
