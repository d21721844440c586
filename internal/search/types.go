package search

import "github.com/RapidRiverSoftware/jobs-api/model"

// candidateHit represents a posting candidate during search processing.
type candidateHit struct {
	record       model.PositionOpening
	score        float64
	matchedStems map[string]struct{} // query stems that matched this posting
}
