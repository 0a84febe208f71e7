package domain

// Reference is a referee's reference for the employee, combining referee
// identity, the received reference entry and any verification logs.
type Reference struct {
	ID                    string `json:"id"`
	IsForLatestEmployment bool   `json:"is_for_latest_employment"`
	RefereeName           string `json:"referee_name"`
	CompanyName           string `json:"company_name"`
	RefereeRole           string `json:"referee_role"`
	RefereeEmail          string `json:"referee_email"`
	ReferenceType         string `json:"reference_type"`
	RefereePhoneNumber    string `json:"referee_phone_number"`
	IsReviewed            bool   `json:"is_reviewed"`
	ReviewedBy            string `json:"reviewed_by"`
	ReviewedAt            string `json:"reviewed_at"`

	ReferenceEntry ReferenceEntry `json:"reference_entry"`

	// VerificationLogs may be empty; a reference with zero logs is valid
	// and renders as "Not verified".
	VerificationLogs []VerificationLog `json:"verification_logs"`
}

// ReferenceEntry is the reference content as received, with any files
// the referee attached.
type ReferenceEntry struct {
	ID           string                `json:"id"`
	DateReceived string                `json:"date_received"`
	Notes        string                `json:"notes"`
	Attachments  []ReferenceAttachment `json:"attachments"`
	AddedBy      string                `json:"added_by"`
}

// ReferenceAttachment is one file attached to a reference entry.
type ReferenceAttachment struct {
	ID       string `json:"id"`
	File     string `json:"file"`
	URL      string `json:"url"`
	FileSize int64  `json:"file_size"`
}

// VerificationLog records one verification contact with the referee.
type VerificationLog struct {
	ID                  string `json:"id"`
	DateContacted       string `json:"date_contacted"`
	VerificationNotes   string `json:"verification_notes"`
	AdditionalNotes     string `json:"additional_notes"`
	VerificationOutcome string `json:"verification_outcome"`
	VerifiedBy          string `json:"verified_by"`
}
