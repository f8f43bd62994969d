package types

// PageDocument is the text of one PDF page.
type PageDocument struct {
	Content  string
	Metadata DocumentMetadata
}

type DocumentChunk struct {
	Content  string           // The actual text content
	Metadata DocumentMetadata // Associated metadata for the chunk
}

// DocumentMetadata describes where a page or chunk came from
type DocumentMetadata struct {
	Title      string // Title of the PDF document
	Source     string // Saved file path, reported back as the chunk source
	PageNum    int    // Current page number
	TotalPages int    // Total number of pages in the document
	ChunkIndex int    // Position of the chunk within its page
}

// DocumentServiceConfig contains configuration options for chunking
type DocumentServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks
	OverlapSize  int // Size of overlap between chunks
}

// RetrievedChunk is a chunk returned by a similarity search.
type RetrievedChunk struct {
	ID        string
	Content   string
	Metadata  DocumentMetadata
	Certainty float64
}
