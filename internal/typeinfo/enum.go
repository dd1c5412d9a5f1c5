package typeinfo

import (
	"go/constant"
	"go/types"
	"slices"

	"github.com/toyz/axonbind/internal/models"
)

// enum reports named integer or string types with declared constants as enums
func (o *Oracle) enum(named *types.Named) (models.TypeDescription, bool) {
	b, ok := named.Underlying().(*types.Basic)
	if !ok || b.Info()&(types.IsInteger|types.IsString) == 0 {
		return models.TypeDescription{}, false
	}
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return models.TypeDescription{}, false
	}

	var consts []*types.Const
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && c.Exported() && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	if len(consts) == 0 {
		return models.TypeDescription{}, false
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return int(a.Pos() - b.Pos()) })

	desc := basic(b)
	if desc.Schema == "integer" && o.settings.EnumHandling == models.EnumHandlingString {
		desc.Schema = "string"
		desc.Format = ""
		for _, c := range consts {
			desc.Enum = append(desc.Enum, c.Name())
		}
		return desc, true
	}

	for _, c := range consts {
		if c.Val().Kind() == constant.String {
			desc.Enum = append(desc.Enum, constant.StringVal(c.Val()))
		} else {
			desc.Enum = append(desc.Enum, c.Val().ExactString())
		}
	}
	return desc, true
}
