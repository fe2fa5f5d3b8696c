package model

import "github.com/jsphweid/ornamentum/score"

type RealizeResponse struct {
	Id string `json:"id"`
	// the realized score; every ornament written out as plain notes
	Score    *score.File `json:"score"`
	NumNotes uint64      `json:"num_notes"`
	// "tick on key vel" / "tick off key" lines, only with ?events=true
	Events []string `json:"events,omitempty"`
}

type Kind struct {
	Name       string `json:"name"`
	Realizable bool   `json:"realizable"`
	Size       string `json:"size,omitempty"`
}

type KindsResponse struct {
	Kinds []Kind `json:"kinds"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
