// Package catalog - Distinct-value projections for dependent selection lists
package catalog

import "sort"

// distinct deduplicates, drops empty values, and sorts ascending
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ProductTypes lists the product types present in the packaging table
func (c *Catalog) ProductTypes() []string {
	values := make([]string, 0, len(c.factory.PackagingData))
	for _, row := range c.factory.PackagingData {
		values = append(values, row.ProductType)
	}
	return distinct(values)
}

// Products lists candidate products for a product type: packaging rows
// filtered by the chosen type, plus every product in the rate table.
func (c *Catalog) Products(productType string) []string {
	var values []string
	for _, row := range c.factory.PackagingData {
		if row.ProductType == productType {
			values = append(values, row.Product)
		}
	}
	for _, row := range c.factory.RateData {
		values = append(values, row.Product)
	}
	return distinct(values)
}

// TrimTypes lists candidate trim types for a product
func (c *Catalog) TrimTypes(product string) []string {
	var values []string
	for _, row := range c.factory.RateData {
		if row.Product == product {
			values = append(values, row.TrimType)
		}
	}
	return distinct(values)
}

// RMSpecs lists candidate RM specs for a product and trim type
func (c *Catalog) RMSpecs(product, trimType string) []string {
	var values []string
	for _, row := range c.factory.RateData {
		if row.Product == product && row.TrimType == trimType {
			values = append(values, row.RMSpec)
		}
	}
	return distinct(values)
}

// BoxQuantities lists candidate box quantities for a product and type
func (c *Catalog) BoxQuantities(product, productType string) []string {
	var values []string
	for _, row := range c.factory.PackagingData {
		if row.Product == product && row.ProductType == productType {
			values = append(values, row.BoxQty)
		}
	}
	return distinct(values)
}

// PackagingTypes lists candidate packaging types for a product, type and
// box quantity
func (c *Catalog) PackagingTypes(product, productType, boxQty string) []string {
	var values []string
	for _, row := range c.factory.PackagingData {
		if row.Product == product && row.ProductType == productType && row.BoxQty == boxQty {
			values = append(values, row.PackagingType)
		}
	}
	return distinct(values)
}

// Autoselect resolves a selection against a candidate list: a sole
// candidate is selected automatically, a selection no longer in the list
// is cleared, and an in-list selection is kept.
func Autoselect(candidates []string, current string) string {
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, v := range candidates {
		if v == current {
			return current
		}
	}
	return ""
}
