package schemas

import (
	"encoding/json"
	"fmt"
)

// -- Analysis Modes --

// AnalysisMode selects which detection pipeline the server runs for a batch.
type AnalysisMode string

const (
	ModePlagiarism AnalysisMode = "plagiarism"
	ModeAI         AnalysisMode = "ai"
	ModeBoth       AnalysisMode = "both"

	// DefaultAnalysisMode is used when the caller does not specify one.
	DefaultAnalysisMode = ModePlagiarism
)

// ParseAnalysisMode maps a user-supplied string to a known AnalysisMode.
func ParseAnalysisMode(raw string) (AnalysisMode, error) {
	switch AnalysisMode(raw) {
	case ModePlagiarism, ModeAI, ModeBoth:
		return AnalysisMode(raw), nil
	case "":
		return DefaultAnalysisMode, nil
	default:
		return "", fmt.Errorf("unknown analysis mode %q (expected plagiarism, ai or both)", raw)
	}
}

// -- Request Models --

// RegisterRequest is the JSON body for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BatchFile is one document in a pending upload batch.
// Content is held in memory; the server caps individual documents well
// below anything that would make this a problem for a CLI.
type BatchFile struct {
	Name    string
	Size    int64
	Content []byte
}

// -- Response Models --

// Envelope is the generic wrapper the data endpoints respond with.
// The payload shape under Data depends on the endpoint, so it is decoded
// in a second pass by the caller.
type Envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// LoginResponse is the bare body returned by the JWT login endpoint.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// UploadData is the payload acknowledging an accepted batch.
type UploadData struct {
	BatchID string `json:"batch_id"`
}

// AnalysisResult is one per-document comparison outcome within a batch.
type AnalysisResult struct {
	DocumentName        string  `json:"document_name"`
	Similarity          float64 `json:"similarity"`
	SimilarDocumentName string  `json:"similar_document_name"`
}

// Validate enforces the score contract: similarity is probability-like.
func (r AnalysisResult) Validate() error {
	if r.Similarity < 0 || r.Similarity > 1 {
		return fmt.Errorf("result for %q has similarity %v outside [0,1]", r.DocumentName, r.Similarity)
	}
	return nil
}

// DashboardData carries the aggregate counts for the authenticated user.
type DashboardData struct {
	NumBatches   int `json:"num_batches"`
	NumDocuments int `json:"num_documents"`
}

// Validate rejects counts the server should never produce.
func (d DashboardData) Validate() error {
	if d.NumBatches < 0 || d.NumDocuments < 0 {
		return fmt.Errorf("dashboard counts must be non-negative, got batches=%d documents=%d", d.NumBatches, d.NumDocuments)
	}
	return nil
}

// ErrorBody is the error payload shape shared by all endpoints.
type ErrorBody struct {
	Detail string `json:"detail"`
}
