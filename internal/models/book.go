package models

// Book is one cataloged book as persisted in the metadata document. Keys
// match the attribution vocabulary so the YAML stays readable by hand.
type Book struct {
	Title           string `json:"title" yaml:"title"`
	Author          string `json:"author" yaml:"author"`
	TranslatedBy    string `json:"translated by" yaml:"translated by"`
	IllustratedBy   string `json:"illustrated by" yaml:"illustrated by"`
	PublishedBy     string `json:"published by" yaml:"published by"`
	License         string `json:"license" yaml:"license"`
	AttributionNote string `json:"attribution note" yaml:"attribution note"`
	Thumbnail       string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	PDF             string `json:"pdf,omitempty" yaml:"pdf,omitempty"`

	// ThumbnailPath is only set on detail responses, never persisted.
	ThumbnailPath string `json:"thumbnailPath,omitempty" yaml:"-"`
}

// Summary is a listing entry.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	EpubPath      string `json:"epubPath"`
	ThumbnailPath string `json:"thumbnailPath"`
	Metadata      Book   `json:"metadata"`
}

// Detail is the single-book payload.
type Detail struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	EpubPath           string `json:"epubPath"`
	Metadata           Book   `json:"metadata"`
	AttributionContent string `json:"attributionContent"`
}
