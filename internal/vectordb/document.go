package vectordb

// DocumentType categorizes the kind of document stored in the vector DB.
// Notes are human corrections and outrank everything else as evidence.
type DocumentType string

const (
	DocTypeNote DocumentType = "note"
	DocTypeCode DocumentType = "code"
	DocTypeWiki DocumentType = "wiki"
)

// Document represents a piece of content to be stored and searched.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds structured information about a document.
type DocumentMetadata struct {
	Path      string
	LineStart int
	LineEnd   int
	Type      DocumentType
	Symbol    string
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter allows narrowing search results by metadata fields.
type SearchFilter struct {
	Type *DocumentType
	Path *string
}
