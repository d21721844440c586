package index

// PostingEntry records that a document contains a stem, the field it appeared
// in, and the stem's term frequency within that field.
type PostingEntry struct {
	DocID     uint32  // Internal numeric ID for efficiency
	FieldName string  // The name of the field where the stem was found (e.g., "position_title")
	TermFreq  float64 // Occurrences of the stem within this field for this document
}

// PostingList is a slice of PostingEntry, kept sorted by DocID ascending then
// FieldName ascending so updates can locate entries cheaply.
type PostingList []PostingEntry
