package facts

import (
	"strings"

	"github.com/msureshc21/Doculyzer/pkg/types"
)

// CategoryFor derives the classification of a fact key.
func CategoryFor(key types.FactKey) types.Category {
	k := key.String()

	switch k {
	case "company_name", "dba_name":
		return types.CategoryCompanyInfo
	case "ein", "tax_id":
		return types.CategoryLegal
	case "city", "state", "zip_code":
		return types.CategoryLocation
	case "phone", "email", "website":
		return types.CategoryContact
	}

	if strings.HasPrefix(k, "address") {
		return types.CategoryLocation
	}
	if strings.Contains(k, "incorporation") || strings.Contains(k, "date") {
		return types.CategoryLegal
	}

	return types.CategoryCompanyInfo
}
