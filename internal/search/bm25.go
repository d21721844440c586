package search

import (
	"math"

	"github.com/RapidRiverSoftware/jobs-api/index"
	"github.com/RapidRiverSoftware/jobs-api/model"
	"github.com/RapidRiverSoftware/jobs-api/store"
)

// BM25Calculator handles BM25 score calculations over the stemmed fields.
type BM25Calculator struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
}

// NewBM25Calculator creates a new BM25 calculator.
func NewBM25Calculator(invIndex *index.InvertedIndex, docStore *store.DocumentStore) *BM25Calculator {
	return &BM25Calculator{
		invertedIndex: invIndex,
		documentStore: docStore,
	}
}

// calculateIDF calculates the inverse document frequency:
// IDF = log(N / df) where N = total documents, df = documents containing stem.
func (calc *BM25Calculator) calculateIDF(stem string) float64 {
	totalDocs := float64(len(calc.documentStore.Docs))
	if totalDocs == 0 {
		return 0.0
	}

	docFreq := calc.getDocumentFrequency(stem)
	if docFreq == 0 {
		return 0.0
	}

	return math.Log(totalDocs / float64(docFreq))
}

// getDocumentFrequency returns the number of documents containing the stem.
func (calc *BM25Calculator) getDocumentFrequency(stem string) int {
	postingList, exists := calc.invertedIndex.Index[stem]
	if !exists {
		return 0
	}

	// Count unique documents (a stem might appear in multiple fields of the same document)
	uniqueDocs := make(map[uint32]bool)
	for _, entry := range postingList {
		uniqueDocs[entry.DocID] = true
	}

	return len(uniqueDocs)
}

// CalculateBM25 calculates the BM25 score contribution of one stem with
// document length normalization:
// BM25 = IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|d| / avgdl)))
func (calc *BM25Calculator) CalculateBM25(stem string, docID uint32, termFreq float64, searchableFields []string) float64 {
	// BM25 parameters
	k1 := 1.2 // Controls term frequency saturation
	b := 0.75 // Controls how much effect document length has

	idf := calc.calculateIDF(stem)

	record, exists := calc.documentStore.Docs[docID]
	if !exists {
		return 0.0
	}

	docLength := calc.getDocumentLength(record, searchableFields)
	avgDocLength := calc.getAverageDocumentLength(searchableFields)
	if avgDocLength == 0 {
		return 0.0
	}

	tf := termFreq
	bm25TF := (tf * (k1 + 1)) / (tf + k1*(1-b+b*(float64(docLength)/avgDocLength)))

	return idf * bm25TF
}

// getAverageDocumentLength calculates the average document length across all
// documents, for BM25 normalization.
func (calc *BM25Calculator) getAverageDocumentLength(searchableFields []string) float64 {
	if len(calc.documentStore.Docs) == 0 {
		return 0.0
	}

	totalLength := 0
	for _, record := range calc.documentStore.Docs {
		totalLength += calc.getDocumentLength(record, searchableFields)
	}

	return float64(totalLength) / float64(len(calc.documentStore.Docs))
}

// getDocumentLength counts the terms of a record across its searchable fields.
func (calc *BM25Calculator) getDocumentLength(record model.PositionOpening, searchableFields []string) int {
	totalLength := 0
	for _, fieldName := range searchableFields {
		var text string
		switch fieldName {
		case "position_title":
			text = record.PositionTitle
		case "organization_name":
			text = record.OrganizationName
		}
		totalLength += wordCount(text)
	}
	return totalLength
}

// wordCount approximates the number of terms by counting whitespace-separated
// runs.
func wordCount(text string) int {
	words := 0
	inWord := false
	for _, char := range text {
		if char == ' ' || char == '\t' || char == '\n' || char == '\r' {
			inWord = false
		} else if !inWord {
			words++
			inWord = true
		}
	}
	return words
}
