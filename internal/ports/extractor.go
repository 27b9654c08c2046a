package ports

// Extractor converts an uploaded document into plain text.
type Extractor interface {
	Format() string
	Extract(data []byte) (string, error)
}
