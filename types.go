package tika

// Translator is the fully qualified class name of the server-side
// translator used by Translate.
type Translator string

// Translators shipped with the Tika server. Any other class name can be
// used directly: Translator("org.apache.tika.language.translate.YandexTranslator").
const (
	// TranslatorLingo24 is the default translator
	TranslatorLingo24 Translator = "org.apache.tika.language.translate.Lingo24Translator"
	// TranslatorGoogle uses the Google translation backend
	TranslatorGoogle Translator = "org.apache.tika.language.translate.GoogleTranslator"
)

// ConfigEndpoint identifies one of the server's configuration resources
type ConfigEndpoint int

const (
	// ConfigMimeTypes lists the mime types known to the server
	ConfigMimeTypes ConfigEndpoint = iota
	// ConfigDetectors describes the detector tree
	ConfigDetectors
	// ConfigParsers describes the parser tree
	ConfigParsers
	// ConfigParsersDetails describes the parser tree with supported types
	ConfigParsersDetails
)

// Path returns the request path for the configuration resource
func (e ConfigEndpoint) Path() string {
	switch e {
	case ConfigDetectors:
		return "detectors"
	case ConfigParsers:
		return "parsers"
	case ConfigParsersDetails:
		return "parsers/details"
	case ConfigMimeTypes:
		fallthrough
	default:
		return "mime-types"
	}
}

// Detector is a node in the server's detector tree
type Detector struct {
	// Name is the detector's JVM class name
	Name string `json:"name"`
	// Composite indicates the detector delegates to children
	Composite bool `json:"composite"`
	// Children are the delegate detectors of a composite
	Children []Detector `json:"children,omitempty"`
}

// Parser is a node in the server's parser tree
type Parser struct {
	// Name is the parser's JVM class name
	Name string `json:"name"`
	// Composite indicates the parser delegates to children
	Composite bool `json:"composite"`
	// Decorated indicates the parser is wrapped by a decorator
	Decorated bool `json:"decorated"`
	// Children are the delegate parsers of a composite
	Children []Parser `json:"children,omitempty"`
	// SupportedTypes lists handled mime types; populated only by the
	// parsers/details resource
	SupportedTypes []string `json:"supportedTypes,omitempty"`
}

// MimeType is one entry of the server's mime type catalog, flattened
// from the server's map-of-objects shape: the identifier comes from the
// map key, the remaining fields from the value.
type MimeType struct {
	// Identifier is the mime type name, e.g. "application/pdf"
	Identifier string `json:"identifier"`
	// Supertype is the more general type this one specializes
	Supertype string `json:"supertype,omitempty"`
	// Alias lists alternative identifiers
	Alias []string `json:"alias,omitempty"`
	// Parser is the JVM class registered for this type
	Parser string `json:"parser,omitempty"`
}

// mimeTypeEntry is the map value shape before flattening
type mimeTypeEntry struct {
	Supertype string   `json:"supertype"`
	Alias     []string `json:"alias"`
	Parser    string   `json:"parser"`
}
