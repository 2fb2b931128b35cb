package families

import (
	"github.com/cory-johannsen/sphereconv/internal/convert"
)

// ConstantsType is the output header type for named constant blocks.
const ConstantsType = "Constants"

// NewConstantsFamily returns the constants family table. Every field of a
// constants block is a constant and is claimed and re-emitted unchanged.
func NewConstantsFamily() *convert.Family {
	f := convert.NewFamily("constants", ConstantsType, false)
	f.Step(convert.StageFirst, func(_ *convert.Batch, d *convert.Definition) error {
		for _, c := range d.Store.Remainder() {
			d.EmitField(c.Name, c.Value, c.Comment)
		}
		return nil
	})
	return f
}
