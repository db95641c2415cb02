package types

import "slices"

// Category is the derived classification of a fact key.
type Category string

const (
	// CategoryCompanyInfo covers organization identity keys (name, DBA).
	CategoryCompanyInfo Category = "company_info"

	// CategoryLegal covers legal identifiers and incorporation keys.
	CategoryLegal Category = "legal"

	// CategoryLocation covers address components.
	CategoryLocation Category = "location"

	// CategoryContact covers contact channels (phone, email, website).
	CategoryContact Category = "contact"
)

// Categories returns all defined fact categories.
func Categories() []Category {
	return []Category{CategoryCompanyInfo, CategoryLegal, CategoryLocation, CategoryContact}
}

// String returns the string representation of a category.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true if the category is one of the defined constants.
func (c Category) IsValid() bool {
	return slices.Contains(Categories(), c)
}

// Method identifies how a candidate value was produced upstream.
type Method string

const (
	// MethodOCR marks values read by optical character recognition.
	MethodOCR Method = "ocr"

	// MethodAIModel marks values proposed by a language model.
	MethodAIModel Method = "ai_model"

	// MethodForm marks values read from interactive form fields.
	MethodForm Method = "form"

	// MethodManual marks values entered by hand upstream.
	MethodManual Method = "manual"
)

// Methods returns all defined extraction methods.
func Methods() []Method {
	return []Method{MethodOCR, MethodAIModel, MethodForm, MethodManual}
}

// String returns the string representation of a method.
func (m Method) String() string {
	return string(m)
}

// IsValid returns true if the method is one of the defined constants.
func (m Method) IsValid() bool {
	return slices.Contains(Methods(), m)
}
