package domain

// DBSInformation is the single DBS check record of a report. It carries
// no attachments; the archive renders it as a detail-only text entry.
type DBSInformation struct {
	ID                string    `json:"id"`
	CertificateNumber string    `json:"certificate_number"`
	Status            string    `json:"status"`
	IsValid           bool      `json:"is_valid"`
	Result            DBSResult `json:"result"`
	IsReviewed        bool      `json:"is_reviewed"`
	ReviewedBy        string    `json:"reviewed_by"`
	ReviewedAt        string    `json:"reviewed_at"`
}

// DBSResult is the nested DBS check outcome.
type DBSResult struct {
	Status        string `json:"status"`
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	DataGenerated string `json:"data_generated"`
}

// OnfidoResult is one identity-verification record.
//
// DocumentPhotos holds (id, label) pairs only. The photos themselves are
// never fetched or embedded by this pipeline; they are counted in the
// text projection and require separate handling.
type OnfidoResult struct {
	ID               string      `json:"id"`
	ReviewedAt       string      `json:"reviewed_at"`
	ReviewedBy       string      `json:"reviewed_by"`
	IsReviewed       bool        `json:"is_reviewed"`
	VerificationType string      `json:"verification_type"`
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	ExpiryDate       string      `json:"expiry_date"`
	IssuingDate      string      `json:"issuing_date"`
	DocumentType     string      `json:"document_type"`
	DocumentNumber   string      `json:"document_number"`
	IssuingCountry   string      `json:"issuing_country"`
	CompletedAt      string      `json:"completed_at"`
	Status           string      `json:"status"`
	DocumentPhotos   [][2]string `json:"document_photos"`
}
