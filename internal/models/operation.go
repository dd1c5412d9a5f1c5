package models

// Operation is one route handler to resolve
type Operation struct {
	ID         string            // operation identifier, e.g. UserController.GetUser
	Method     string            // HTTP method
	Path       string            // route template with {name} / {name:constraint} placeholders
	Parameters []FormalParameter // declared handler parameters in signature order
	File       string            // source file of the handler
	Line       int               // source line of the handler
}

// EnumHandling selects how enum types are represented
type EnumHandling string

const (
	EnumHandlingInteger EnumHandling = "integer"
	EnumHandlingString  EnumHandling = "string"
)

// PropertyNameHandling selects how struct field names become property names
type PropertyNameHandling string

const (
	PropertyNameDefault PropertyNameHandling = "default" // json tag name, else field name
	PropertyNameCamel   PropertyNameHandling = "camel"
	PropertyNameSnake   PropertyNameHandling = "snake"
	PropertyNameField   PropertyNameHandling = "field"
)

// Settings are the generation settings consumed by the resolver
type Settings struct {
	// ConventionB makes complex types bind from the query string unless they
	// carry an explicit body marker.
	ConventionB bool

	// AddMissingPathParameters synthesizes path parameters for placeholders
	// no declared parameter covers.
	AddMissingPathParameters bool

	EnumHandling         EnumHandling
	PropertyNameHandling PropertyNameHandling

	// RawDocumentTypes are fully qualified type names treated as raw XML documents
	RawDocumentTypes []string
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		EnumHandling:         EnumHandlingInteger,
		PropertyNameHandling: PropertyNameDefault,
		RawDocumentTypes:     []string{"github.com/beevik/etree.Document"},
	}
}
