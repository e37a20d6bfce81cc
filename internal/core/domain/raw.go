package domain

// RawDocument is a stored upload handed to a loader.
type RawDocument struct {
	// Filename is the sanitised upload name; its extension selects the loader.
	Filename string

	// Path is the location of the stored bytes.
	Path string

	// Content is the raw bytes.
	Content []byte
}

// ParsedDocument is the loader's output: extracted text and its sections.
type ParsedDocument struct {
	// Text is the full extracted text.
	Text string

	// Title is a display title derived from the content or filename.
	Title string

	// Sections is Text segmented into ordered heading/body windows.
	Sections []Section
}
