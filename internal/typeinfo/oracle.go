package typeinfo

import (
	"go/types"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/models"
)

var (
	uuidTypeName     = ReflectName(reflect.TypeOf(uuid.UUID{}))
	timeTypeName     = ReflectName(reflect.TypeOf(time.Time{}))
	durationTypeName = ReflectName(reflect.TypeOf(time.Duration(0)))
)

const (
	fileHeaderTypeName = "mime/multipart.FileHeader"
	fileTypeName       = "mime/multipart.File"
	contextTypeName    = "context.Context"
)

// Oracle describes go/types types for binding resolution
type Oracle struct {
	host        Host
	settings    models.Settings
	flowControl map[string]struct{}
	rawDocs     map[string]struct{}
}

// NewOracle creates an oracle for the given host framework and settings
func NewOracle(host Host, settings models.Settings) *Oracle {
	o := &Oracle{
		host:        host,
		settings:    settings,
		flowControl: map[string]struct{}{contextTypeName: {}},
		rawDocs:     map[string]struct{}{},
	}
	for _, name := range host.FlowControlTypes() {
		o.flowControl[name] = struct{}{}
	}
	for _, name := range settings.RawDocumentTypes {
		o.rawDocs[name] = struct{}{}
	}
	return o
}

// Host returns the host framework adapter
func (o *Oracle) Host() Host {
	return o.host
}

// Classify returns the structural description of t
func (o *Oracle) Classify(t models.Type) models.TypeDescription {
	gt, ok := t.(types.Type)
	if !ok || gt == nil {
		return models.TypeDescription{Kind: models.TypePrimitive, Schema: "string"}
	}
	return o.classify(gt)
}

func (o *Oracle) classify(t types.Type) models.TypeDescription {
	t = types.Unalias(t)

	if ptr, ok := t.(*types.Pointer); ok {
		desc := o.classify(ptr.Elem())
		desc.Nullable = true
		return desc
	}

	switch QualifiedName(t) {
	case fileHeaderTypeName, fileTypeName:
		return models.TypeDescription{Kind: models.TypeFile, Schema: "file", Nullable: isInterface(t)}
	case uuidTypeName:
		return models.TypeDescription{Kind: models.TypePrimitive, Schema: "string", Format: "uuid"}
	case timeTypeName:
		return models.TypeDescription{Kind: models.TypePrimitive, Schema: "string", Format: "date-time"}
	case durationTypeName:
		return models.TypeDescription{Kind: models.TypePrimitive, Schema: "integer", Format: "int64"}
	}

	if named, ok := t.(*types.Named); ok {
		if enum, ok := o.enum(named); ok {
			return enum
		}
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		return basic(u)
	case *types.Slice:
		if b, ok := u.Elem().Underlying().(*types.Basic); ok && b.Kind() == types.Byte {
			return models.TypeDescription{Kind: models.TypePrimitive, Schema: "string", Format: "byte", Nullable: true}
		}
		return o.collection(u.Elem(), true)
	case *types.Array:
		return o.collection(u.Elem(), false)
	case *types.Struct, *types.Map, *types.Interface:
		_, isStruct := u.(*types.Struct)
		return models.TypeDescription{Kind: models.TypeComplex, Schema: "object", Nullable: !isStruct}
	default:
		return models.TypeDescription{Kind: models.TypePrimitive, Schema: "string"}
	}
}

func (o *Oracle) collection(elem types.Type, nullable bool) models.TypeDescription {
	item := o.classify(elem)
	if item.Kind == models.TypeFile {
		return models.TypeDescription{Kind: models.TypeFileArray, Schema: "array", Nullable: nullable, Item: &item}
	}
	return models.TypeDescription{Kind: models.TypeArray, Schema: "array", Nullable: nullable, Item: &item}
}

func basic(b *types.Basic) models.TypeDescription {
	desc := models.TypeDescription{Kind: models.TypePrimitive}
	switch {
	case b.Info()&types.IsBoolean != 0:
		desc.Schema = "boolean"
	case b.Info()&types.IsInteger != 0:
		desc.Schema = "integer"
		switch b.Kind() {
		case types.Int64, types.Uint64, types.Int, types.Uint, types.Uintptr:
			desc.Format = "int64"
		default:
			desc.Format = "int32"
		}
	case b.Info()&types.IsFloat != 0:
		desc.Schema = "number"
		if b.Kind() == types.Float32 {
			desc.Format = "float"
		} else {
			desc.Format = "double"
		}
	default:
		desc.Schema = "string"
	}
	return desc
}

// Properties returns the externally visible properties of a struct type.
// Embedded structs without a tag name are flattened into their parent.
func (o *Oracle) Properties(t models.Type) []models.Property {
	gt, ok := t.(types.Type)
	if !ok || gt == nil {
		return nil
	}
	return o.properties(gt, map[types.Type]bool{})
}

func (o *Oracle) properties(t types.Type, seen map[types.Type]bool) []models.Property {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if seen[t] {
		return nil
	}
	seen[t] = true

	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var props []models.Property
	for i := range st.NumFields() {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		if field.Embedded() && tagName(tag.Get("json")) == "" {
			props = append(props, o.properties(field.Type(), seen)...)
			continue
		}
		if !field.Exported() {
			continue
		}

		props = append(props, models.Property{
			Name:      PropertyName(field.Name(), tag, o.settings.PropertyNameHandling),
			FieldName: field.Name(),
			Type:      field.Type(),
			Markers:   o.host.FieldMarkers(tag),
			Required:  requiredTag(tag),
		})
	}
	return props
}

// IsFlowControl reports whether t is a request-context or cancellation type
func (o *Oracle) IsFlowControl(t models.Type) bool {
	gt, ok := t.(types.Type)
	if !ok || gt == nil {
		return false
	}
	_, found := o.flowControl[QualifiedName(gt)]
	return found
}

// IsRawDocument reports whether t is configured as a raw XML document type
func (o *Oracle) IsRawDocument(t models.Type) bool {
	gt, ok := t.(types.Type)
	if !ok || gt == nil {
		return false
	}
	_, found := o.rawDocs[QualifiedName(gt)]
	return found
}

// BinderMarkers returns the markers for a parameter type the host binds from
// a single string value, or nil when the host binds it normally
func (o *Oracle) BinderMarkers(t models.Type) markers.Set {
	gt, ok := t.(types.Type)
	if !ok || gt == nil {
		return nil
	}
	if o.classify(gt).Kind != models.TypeComplex {
		return nil
	}

	ptr := gt
	if _, isPtr := types.Unalias(gt).(*types.Pointer); !isPtr {
		ptr = types.NewPointer(gt)
	}
	mset := types.NewMethodSet(ptr)
	if !slices.ContainsFunc(o.host.BinderMethods(), func(name string) bool {
		return mset.Lookup(nil, name) != nil
	}) {
		return nil
	}

	return markers.Set{
		{Kind: markers.Binding},
		{Kind: markers.WillReadBody, Value: markers.Bool(false)},
	}
}

// QualifiedName returns pkgpath.Name for named types, ignoring pointers and
// type arguments, and the type string for everything else
func QualifiedName(t types.Type) string {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	named, ok := t.(*types.Named)
	if !ok {
		return t.String()
	}
	obj := named.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func isInterface(t types.Type) bool {
	_, ok := t.Underlying().(*types.Interface)
	return ok
}

// Elem returns the element type of a slice, array or map, or nil
func (o *Oracle) Elem(t models.Type) models.Type {
	gt, ok := t.(types.Type)
	if !ok || gt == nil {
		return nil
	}
	gt = types.Unalias(gt)
	if ptr, ok := gt.(*types.Pointer); ok {
		gt = ptr.Elem()
	}
	switch u := gt.Underlying().(type) {
	case *types.Slice:
		return u.Elem()
	case *types.Array:
		return u.Elem()
	case *types.Map:
		return u.Elem()
	default:
		return nil
	}
}

// DefinitionName returns pkg.Name for named struct types and "" otherwise
func (o *Oracle) DefinitionName(t models.Type) string {
	gt, ok := t.(types.Type)
	if !ok || gt == nil {
		return ""
	}
	gt = types.Unalias(gt)
	if ptr, ok := gt.(*types.Pointer); ok {
		gt = types.Unalias(ptr.Elem())
	}
	named, ok := gt.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return ""
	}
	if _, isStruct := named.Underlying().(*types.Struct); !isStruct {
		return ""
	}
	return named.Obj().Pkg().Name() + "." + named.Obj().Name()
}
