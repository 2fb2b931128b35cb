package families

import (
	"strings"

	"github.com/cory-johannsen/sphereconv/internal/convert"
)

// TemplateType is the output header type for loot/spawn templates.
const TemplateType = "TemplateDef"

// NewTemplateFamily returns the template family table. Template entries
// reference items as "ref[,amount]".
func NewTemplateFamily() *convert.Family {
	f := convert.NewFamily("template", TemplateType, true)
	f.Handle(convert.StageSecond, "item", templateEntry("item")).
		Handle(convert.StageSecond, "cont", templateEntry("cont"))
	return f
}

func templateEntry(name string) convert.Handler {
	return func(b *convert.Batch, d *convert.Definition, f convert.RawField) (string, error) {
		ref, rest, hasRest := strings.Cut(f.Value, ",")
		f.Value = ref
		v := b.ResolveReference(b.Items, d, f)
		if hasRest {
			v += "," + strings.TrimSpace(rest)
		}
		d.EmitField(name, v, f.Comment)
		return v, nil
	}
}
