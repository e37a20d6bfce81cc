package domain

import "time"

// DocumentRecord tracks one uploaded document through analysis.
// The record store owns the canonical copy; callers re-fetch to observe updates.
type DocumentRecord struct {
	// ID is the opaque random hex token identifying the document.
	ID string `json:"id" yaml:"id"`

	// Filename is the sanitised name the upload was stored under.
	Filename string `json:"filename" yaml:"filename"`

	// StoragePath is where the uploaded bytes live on disk.
	StoragePath string `json:"storage_path" yaml:"storage_path"`

	// Status is the lifecycle state of the analysis.
	Status DocumentStatus `json:"status" yaml:"status"`

	// UploadedAt is when the record was created.
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`

	// Error is the human-readable failure message of a failed analysis.
	Error *string `json:"error" yaml:"error"`

	// Artifacts is set once the analysis completed.
	Artifacts *DocumentArtifacts `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`

	// Metadata contains loader-provided key-value pairs (e.g. content_length).
	Metadata map[string]string `json:"metadata" yaml:"metadata"`
}

// NewDocumentRecord creates a pending record.
func NewDocumentRecord(id, filename, storagePath string, uploadedAt time.Time) *DocumentRecord {
	return &DocumentRecord{
		ID:          id,
		Filename:    filename,
		StoragePath: storagePath,
		Status:      StatusPending,
		UploadedAt:  uploadedAt.UTC(),
		Metadata:    make(map[string]string),
	}
}

// MarkProcessing moves a pending record into processing.
func (r *DocumentRecord) MarkProcessing() error {
	return r.transition(StatusProcessing)
}

// Complete stores the artifacts and moves the record to completed.
func (r *DocumentRecord) Complete(artifacts DocumentArtifacts) error {
	if err := r.transition(StatusCompleted); err != nil {
		return err
	}
	r.Artifacts = &artifacts
	r.Error = nil
	return nil
}

// Fail moves the record to failed and records the message.
// Artifacts are dropped so a failed record never carries partial output.
func (r *DocumentRecord) Fail(message string) error {
	if err := r.transition(StatusFailed); err != nil {
		return err
	}
	if message == "" {
		message = "analysis failed"
	}
	r.Error = &message
	r.Artifacts = nil
	return nil
}

// ErrorMessage returns the failure message or an empty string.
func (r *DocumentRecord) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

func (r *DocumentRecord) transition(next DocumentStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return &TransitionError{From: r.Status, To: next}
	}
	r.Status = next
	return nil
}

// Clone returns a deep copy of the record.
func (r *DocumentRecord) Clone() *DocumentRecord {
	c := *r

	if r.Error != nil {
		msg := *r.Error
		c.Error = &msg
	}

	if r.Artifacts != nil {
		a := r.Artifacts.Clone()
		c.Artifacts = &a
	}

	c.Metadata = make(map[string]string, len(r.Metadata))
	for k, v := range r.Metadata {
		c.Metadata[k] = v
	}

	return &c
}
