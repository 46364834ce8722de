package types

// TaxonomySubcategory is one child entry of a taxonomy category. The
// description is optional: subcategories without one render as a bare
// name in the classification prompt, the rest as "name: description".
type TaxonomySubcategory struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// TaxonomyCategory is the two-level tree shape the classifier consumes,
// rebuilt per request from the flat collection_categories rows.
type TaxonomyCategory struct {
	Category      string                `json:"category"`
	Description   string                `json:"description,omitempty"`
	Subcategories []TaxonomySubcategory `json:"subcategories"`
}
