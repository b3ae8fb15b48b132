package mapping

import "context"

// DiscoveryResult is what an external discovery call returns for one
// integration: the fields on both sides plus the raw assistant suggestion
// payload, which stays opaque until DecodeSuggestions validates it.
type DiscoveryResult struct {
	SourceFields   []SourceField `json:"source_fields"`
	TargetFields   []TargetField `json:"target_fields"`
	RawSuggestions []byte        `json:"raw_suggestions,omitempty"`
}

// Discoverer loads the mappable fields of an external integration. The
// network side lives outside this package.
type Discoverer interface {
	DiscoverFields(ctx context.Context, integrationID, entityType string) (DiscoveryResult, error)
}

// TransformationSuggester asks an external assistant for a transformation
// expression candidate. The returned expression is validated and treated
// as data, never trusted as code.
type TransformationSuggester interface {
	SuggestTransformation(ctx context.Context, sampleValue, targetType, hint string) (TransformationSuggestion, error)
}
