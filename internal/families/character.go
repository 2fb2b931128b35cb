package families

import (
	"github.com/cory-johannsen/sphereconv/internal/convert"
)

// CharacterType is the output header type for characters.
const CharacterType = "CharacterDef"

// NewCharacterFamily returns the character family table.
func NewCharacterFamily() *convert.Family {
	f := convert.NewFamily("character", CharacterType, true)
	f.Handle(convert.StageFirst, "defname", handleDefname).
		Step(convert.StageFirst, func(b *convert.Batch, d *convert.Definition) error {
			b.RegisterIdentity(b.Characters, d, "char")
			return nil
		}).
		Handle(convert.StageSecond, "id", referenceTo("id", characterRegistry)).
		Handle(convert.StageSecond, "corpse", referenceTo("corpse", itemRegistry))
	return f
}
