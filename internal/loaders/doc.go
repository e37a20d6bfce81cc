// Package loaders turns stored uploads into parsed documents. Each loader
// extracts text from one family of file formats; the Registry picks a
// loader by extension, enforces the size limit and segments the text.
package loaders
