// Package assets provides the stylesheets and the document template used
// for standalone HTML output.
package assets

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "trac"

// DocumentTemplateName is the name of the standalone page template.
const DocumentTemplateName = "document"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an HTML template by name using the default embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// ListStyles returns the names of the embedded styles, sorted.
func ListStyles() []string {
	names, _ := defaultLoader.ListStyles()
	return names
}
