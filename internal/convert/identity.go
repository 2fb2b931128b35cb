package convert

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// IDField is the field that, when present, makes a numeric header a plain
// identifier rather than a model id.
const IDField = "id"

// RegisterIdentity registers d in reg during the first pass:
//   - numeric header, no id field: the header is d's model id;
//   - non-numeric header: d is registered by header name;
//   - numeric header with an id field: the header is not a model, so d is
//     named by its alternate name or, lacking one, a placeholder built from
//     placeholderPrefix.
//
// An alternate name is registered as an extra name key in every case.
func (b *Batch) RegisterIdentity(reg *Registry, d *Definition, placeholderPrefix string) {
	model, numeric := ParseNumber(d.SourceName)
	hasID := d.Store.Has(IDField)

	switch {
	case numeric && !hasID:
		d.Model, d.HasModel = model, true
		reg.RegisterModel(model, d)
		if d.AltName != "" {
			d.Name = d.AltName
			reg.RegisterName(d.AltName, d)
		}
	case !numeric:
		d.Name = d.SourceName
		reg.RegisterName(d.SourceName, d)
		if d.AltName == "" {
			return
		}
		if strings.EqualFold(d.AltName, d.SourceName) {
			b.Diag.Info(d.Pos, "ignored redundant alternate name", zap.String("name", d.AltName))
			return
		}
		reg.RegisterName(d.AltName, d)
	default:
		if d.AltName != "" {
			d.Name = d.AltName
		} else {
			d.Name = fmt.Sprintf("%s_%x", placeholderPrefix, model)
		}
		reg.RegisterName(d.Name, d)
		b.Diag.Warn(d.Pos, "numeric header with id field is not a model; registered by name",
			zap.String("header", d.SourceName),
			zap.String("name", d.Name),
		)
	}
}
