package domain

import (
	"encoding/json"
	"io"
	"regexp"
	"strings"
)

// ComplianceReport is the envelope returned by the report-data collaborator.
// The pipeline treats it as immutable input: it is loaded once, before an
// export begins, and never written to.
type ComplianceReport struct {
	// Status is the API-level status string ("success" in the happy path).
	Status string `json:"status"`

	// Message is a human-readable status message.
	Message string `json:"message"`

	// Code is the API-level status code.
	Code string `json:"code"`

	// Data is the report payload.
	Data ReportData `json:"data"`
}

// ReportData is the root aggregate of one employee compliance report.
// Collections may be empty but are never nil at export time; an empty
// slice means "no items", not "section absent".
type ReportData struct {
	// ID uniquely identifies this report instance.
	ID string `json:"id"`

	EmployeeType       string `json:"employee_type"`
	VerificationStatus string `json:"verification_status"`

	IsEmploymentReviewed bool   `json:"is_employment_reviewed"`
	EmploymentReviewedBy string `json:"employment_reviewed_by"`
	EmploymentReviewedAt string `json:"employment_reviewed_at"`

	KonfirVerificationID string `json:"konfir_verification_id"`

	// Checks are the compliance checks summarised in the archive manifest.
	Checks []Check `json:"checks"`

	IsEmploymentHistoryVerified bool `json:"is_employment_history_verified"`

	// TodoItems track task completion, also summarised in the manifest.
	TodoItems []TodoItem `json:"todo_items"`

	CareHome CareHome `json:"care_home"`
	Profile  Profile  `json:"profile"`
	CV       CV       `json:"cv"`

	SupportingDocuments []SupportingDocument `json:"supporting_documents"`
	EmploymentHistories []EmploymentHistory  `json:"employment_histories"`
	References          []Reference          `json:"references"`
	DBSInformation      DBSInformation       `json:"dbs_information"`
	OnfidoResults       []OnfidoResult       `json:"onfido_results"`
}

// Profile is the employee's contact information.
type Profile struct {
	UserFullName string `json:"user_full_name"`
	Email        string `json:"email"`
	FullAddress  string `json:"full_address"`
	Phone        string `json:"phone"`
}

// CareHome is the employing care home.
type CareHome struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	RegulatoryBody string `json:"regulatory_body"`
	CareHomeType   string `json:"care_home_type"`
	Website        string `json:"website"`
	ServicesOffered string `json:"services_offered"`
}

// CV is the employee's curriculum vitae file reference.
// An empty URL means no remote file exists; the archive builder skips
// the fetch without treating it as an error.
type CV struct {
	ID       string `json:"id"`
	File     string `json:"file"`
	FileSize int64  `json:"file_size"`
	URL      string `json:"url"`
}

// Check is a single compliance check summary line.
type Check struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TodoItem is a single task-completion entry.
type TodoItem struct {
	TaskType string `json:"task_type"`
	Status   string `json:"status"`
}

// EmploymentHistory is one employment record. EndDate nil means the
// employment is current ("Present" in text projections).
type EmploymentHistory struct {
	ID                 string  `json:"id"`
	CompanyName        string  `json:"company_name"`
	StartDate          string  `json:"start_date"`
	EndDate            *string `json:"end_date"`
	GapExplanation     string  `json:"gap_explanation"`
	Role               string  `json:"role"`
	IsDeclared         bool    `json:"is_declared"`
	IsCurrent          bool    `json:"is_current"`
	VerificationStatus string  `json:"verification_status"`
}

// SupportingDocument is one uploaded supporting file.
type SupportingDocument struct {
	// ID is the document identifier used for signed-URL lookup.
	ID string `json:"id"`

	// Document is the display file name.
	Document string `json:"document"`

	// DocumentType groups documents into archive subfolders.
	DocumentType string `json:"document_type"`

	DocumentSize int64  `json:"document_size"`
	Description  string `json:"description"`
	IsReviewed   bool   `json:"is_reviewed"`
	ReviewedBy   string `json:"reviewed_by"`
	ReviewedAt   string `json:"reviewed_at"`

	// FileURL is the remote location of the file. Empty means "no remote
	// file": the document is skipped, with no fetch attempt and no entry
	// in any failure count.
	FileURL string `json:"file_url,omitempty"`
}

// DecodeReport parses a ComplianceReport from JSON and normalises nil
// collections to empty ones so downstream code can treat them uniformly.
func DecodeReport(r io.Reader) (*ComplianceReport, error) {
	var report ComplianceReport
	dec := json.NewDecoder(r)
	if err := dec.Decode(&report); err != nil {
		return nil, err
	}
	d := &report.Data
	if d.Checks == nil {
		d.Checks = []Check{}
	}
	if d.TodoItems == nil {
		d.TodoItems = []TodoItem{}
	}
	if d.SupportingDocuments == nil {
		d.SupportingDocuments = []SupportingDocument{}
	}
	if d.EmploymentHistories == nil {
		d.EmploymentHistories = []EmploymentHistory{}
	}
	if d.References == nil {
		d.References = []Reference{}
	}
	if d.OnfidoResults == nil {
		d.OnfidoResults = []OnfidoResult{}
	}
	return &report, nil
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeRunes   = regexp.MustCompile(`[^a-zA-Z0-9_]`)
)

// FileSafeName converts a display name into the form used in artifact
// filenames and archive folder names: whitespace runs become underscores,
// then anything outside [A-Za-z0-9_] is stripped.
func FileSafeName(name string) string {
	safe := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	return unsafeRunes.ReplaceAllString(safe, "")
}

// EmployeeFileName returns the file-safe employee name used as the prefix
// of every produced artifact.
func (d *ReportData) EmployeeFileName() string {
	return FileSafeName(d.Profile.UserFullName)
}
