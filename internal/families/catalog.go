package families

import (
	"github.com/cory-johannsen/sphereconv/internal/convert"
	"github.com/cory-johannsen/sphereconv/internal/region"
)

// NewCatalog returns the catalog of every supported family keyed by source
// header type. Unknown header types fall back to the generic family.
//
// Postcondition: returns a non-nil Catalog; hooks run in the order items,
// characters, templates, constants, regions.
func NewCatalog() *convert.Catalog {
	c := convert.NewCatalog()
	c.Register(NewItemFamily(), "ITEMDEF")
	c.Register(NewCharacterFamily(), "CHARDEF")
	c.Register(NewTemplateFamily(), "TEMPLATE")
	c.Register(NewConstantsFamily(), "DEFNAME", "DEFNAMES")
	c.Register(region.NewFamily(), region.HeaderTypes...)
	return c
}
