// Package mapping - Field mappings between external sources and system entities
package mapping

import "regexp"

// SourceField describes one field discovered on an external data source.
// Descriptors are immutable once discovered.
type SourceField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	SampleValue string `json:"sample_value,omitempty"`
}

// TargetField describes one mappable field on a system entity.
type TargetField struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Required   bool   `json:"required"`
	EntityType string `json:"entity_type"`
	FieldPath  string `json:"field_path"`
}

// Entity types that accept field mappings.
const (
	EntityEnquiry = "ENQUIRY"
	EntityQuote   = "QUOTE"
	EntityOrder   = "ORDER"
)

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2})?)?`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	urlPattern   = regexp.MustCompile(`^https?://`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s().-]{7,}$`)
	numPattern   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// SniffType guesses a field type from a sample value. Used when a
// discovered source omits type information.
func SniffType(sample string) string {
	switch {
	case sample == "":
		return "string"
	case datePattern.MatchString(sample):
		return "date"
	case emailPattern.MatchString(sample):
		return "email"
	case urlPattern.MatchString(sample):
		return "url"
	case numPattern.MatchString(sample):
		return "number"
	case phonePattern.MatchString(sample):
		return "phone"
	default:
		return "string"
	}
}

// TargetFields returns the mappable fields for an entity type.
func TargetFields(entityType string) []TargetField {
	switch entityType {
	case EntityEnquiry:
		return []TargetField{
			{Name: "customerName", Type: "string", Required: true, EntityType: entityType, FieldPath: "customer.name"},
			{Name: "customerEmail", Type: "email", Required: true, EntityType: entityType, FieldPath: "customer.email"},
			{Name: "companyName", Type: "string", Required: false, EntityType: entityType, FieldPath: "customer.company"},
			{Name: "phoneNumber", Type: "phone", Required: false, EntityType: entityType, FieldPath: "customer.phone"},
			{Name: "productDescription", Type: "string", Required: true, EntityType: entityType, FieldPath: "items.description"},
			{Name: "requestedQuantity", Type: "number", Required: true, EntityType: entityType, FieldPath: "items.quantity"},
			{Name: "deliveryDate", Type: "date", Required: false, EntityType: entityType, FieldPath: "delivery.date"},
			{Name: "deliveryAddress", Type: "string", Required: false, EntityType: entityType, FieldPath: "delivery.address"},
			{Name: "specialInstructions", Type: "string", Required: false, EntityType: entityType, FieldPath: "notes"},
		}
	case EntityQuote:
		return []TargetField{
			{Name: "quoteReference", Type: "string", Required: true, EntityType: entityType, FieldPath: "reference"},
			{Name: "customerName", Type: "string", Required: true, EntityType: entityType, FieldPath: "customer.name"},
			{Name: "totalAmount", Type: "number", Required: true, EntityType: entityType, FieldPath: "pricing.total"},
			{Name: "currency", Type: "string", Required: true, EntityType: entityType, FieldPath: "pricing.currency"},
			{Name: "validUntil", Type: "date", Required: false, EntityType: entityType, FieldPath: "validity.until"},
		}
	case EntityOrder:
		return []TargetField{
			{Name: "orderNumber", Type: "string", Required: true, EntityType: entityType, FieldPath: "number"},
			{Name: "customerName", Type: "string", Required: true, EntityType: entityType, FieldPath: "customer.name"},
			{Name: "orderDate", Type: "date", Required: true, EntityType: entityType, FieldPath: "dates.ordered"},
			{Name: "shipmentDate", Type: "date", Required: false, EntityType: entityType, FieldPath: "dates.shipped"},
			{Name: "totalQuantity", Type: "number", Required: true, EntityType: entityType, FieldPath: "quantity"},
		}
	default:
		return nil
	}
}
