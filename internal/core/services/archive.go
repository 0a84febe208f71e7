package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

// Fixed archive folder skeleton. Every build creates these entries up
// front; failing to do so is a structural error, fatal to the export.
var archiveFolders = []string{
	"documents/",
	"documents/cv/",
	"documents/supporting_documents/",
	"documents/references/",
	"documents/identity_verification/",
	"documents/employment/",
}

// ArchiveBuilder assembles the organised ZIP archive for one report.
// Every attachment section is best-effort and independent: a failed or
// missing file is omitted and counted, never fatal. Only the archive
// structure itself can fail the build.
type ArchiveBuilder struct {
	fetcher driven.AttachmentFetcher

	// now is injectable for deterministic manifests in tests.
	now func() time.Time
}

// NewArchiveBuilder creates an archive builder using the given fetcher.
func NewArchiveBuilder(fetcher driven.AttachmentFetcher) *ArchiveBuilder {
	return &ArchiveBuilder{
		fetcher: fetcher,
		now:     time.Now,
	}
}

// Build produces the compressed archive for the report. Attachments are
// fetched sequentially in report order. The optional embed artifacts
// (the rendered PDF in package mode) are placed at the archive root and
// listed in the manifest.
//
// The returned stats count attempted fetches only: documents without a
// remote URL are skipped silently and never counted.
func (b *ArchiveBuilder) Build(
	ctx context.Context,
	report *domain.ComplianceReport,
	embed []domain.Artifact,
) ([]byte, domain.FetchStats, error) {
	data := &report.Data
	var stats domain.FetchStats

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	for _, folder := range archiveFolders {
		if _, err := zw.Create(folder); err != nil {
			zw.Close()
			return nil, stats, fmt.Errorf("%w: %s: %w", domain.ErrArchiveStructure, folder, err)
		}
	}

	for _, artifact := range embed {
		if err := writeFile(zw, artifact.Filename, artifact.Data); err != nil {
			zw.Close()
			return nil, stats, fmt.Errorf("%w: embed %s: %w", domain.ErrArchiveStructure, artifact.Filename, err)
		}
		logger.Debug("Embedded artifact: %s", artifact.Filename)
	}

	b.addCV(ctx, zw, data, &stats)
	b.addSupportingDocuments(ctx, zw, data, &stats)
	b.addReferences(ctx, zw, data, &stats)
	b.addDBSDetails(zw, data)
	b.addIdentityVerification(zw, data)
	b.addEmploymentHistory(zw, data)

	// Manifest goes last, after every section and count is known.
	manifest := b.manifest(data, stats, embed)
	if err := writeFile(zw, "README.txt", []byte(manifest)); err != nil {
		zw.Close()
		return nil, stats, fmt.Errorf("%w: README.txt: %w", domain.ErrArchiveStructure, err)
	}

	if err := zw.Close(); err != nil {
		return nil, stats, fmt.Errorf("%w: %w", domain.ErrArchiveStructure, err)
	}

	logger.Info("Archive complete: %d/%d files fetched (%d failed)",
		stats.Fetched, stats.Attempted, stats.Failed)
	return buf.Bytes(), stats, nil
}

// addCV fetches the CV into documents/cv/. A missing URL is silent; a
// failed fetch is logged and counted but does not abort the build.
func (b *ArchiveBuilder) addCV(ctx context.Context, zw *zip.Writer, data *domain.ReportData, stats *domain.FetchStats) {
	if data.CV.URL == "" {
		return
	}

	stats.Attempted++
	name := data.CV.File
	if name == "" {
		name = "CV.pdf"
	}

	result, err := b.fetcher.Fetch(ctx, data.CV.URL, name)
	if err != nil || !result.Retrieved {
		stats.Failed++
		logger.Warn("Failed to fetch CV %s", name)
		return
	}

	if err := writeFile(zw, "documents/cv/"+name, result.Data); err != nil {
		stats.Failed++
		logger.Warn("Failed to add CV %s: %v", name, err)
		return
	}
	stats.Fetched++
	logger.Debug("Added CV: %s", name)
}

// addSupportingDocuments places each fetchable document under its
// document_type subfolder. Documents without a file URL contribute zero
// archive entries and zero fetch attempts.
func (b *ArchiveBuilder) addSupportingDocuments(ctx context.Context, zw *zip.Writer, data *domain.ReportData, stats *domain.FetchStats) {
	for _, doc := range data.SupportingDocuments {
		if doc.FileURL == "" {
			continue
		}

		stats.Attempted++
		result, err := b.fetcher.Fetch(ctx, doc.FileURL, doc.Document)
		if err != nil || !result.Retrieved {
			stats.Failed++
			logger.Warn("Failed to fetch supporting document %s", doc.Document)
			continue
		}

		docType := doc.DocumentType
		if docType == "" {
			docType = "other"
		}
		path := "documents/supporting_documents/" + docType + "/" + doc.Document
		if err := writeFile(zw, path, result.Data); err != nil {
			stats.Failed++
			logger.Warn("Failed to add supporting document %s: %v", doc.Document, err)
			continue
		}
		stats.Fetched++
		logger.Debug("Added supporting document: %s", doc.Document)
	}
}

// addReferences writes one folder per reference in input order, numbered
// from 1. The details text file is always written, regardless of
// attachment outcomes; attachment failures are isolated per reference.
func (b *ArchiveBuilder) addReferences(ctx context.Context, zw *zip.Writer, data *domain.ReportData, stats *domain.FetchStats) {
	for i, ref := range data.References {
		num := i + 1
		folder := fmt.Sprintf("documents/references/Reference_%d_%s/", num, domain.FileSafeName(ref.RefereeName))

		details := referenceDetails(&ref, num)
		if err := writeFile(zw, folder+"reference_details.txt", []byte(details)); err != nil {
			logger.Warn("Failed to write reference details #%d: %v", num, err)
		}

		for _, attachment := range ref.ReferenceEntry.Attachments {
			stats.Attempted++
			result, err := b.fetcher.Fetch(ctx, attachment.URL, attachment.File)
			if err != nil || !result.Retrieved {
				stats.Failed++
				logger.Warn("Failed to fetch reference attachment %s", attachment.File)
				continue
			}
			if err := writeFile(zw, folder+attachment.File, result.Data); err != nil {
				stats.Failed++
				logger.Warn("Failed to add reference attachment %s: %v", attachment.File, err)
				continue
			}
			stats.Fetched++
			logger.Debug("Added reference attachment: %s", attachment.File)
		}
	}
}

// addDBSDetails writes the data-only DBS projection. No network calls.
func (b *ArchiveBuilder) addDBSDetails(zw *zip.Writer, data *domain.ReportData) {
	dbs := &data.DBSInformation
	text := fmt.Sprintf(`DBS CHECK INFORMATION
====================
Certificate Number: %s
Status: %s
Is Valid: %s

Result Details:
- Status: %s
- Name: %s %s
- Data Generated: %s

Review Information:
- Reviewed By: %s
- Reviewed At: %s
- Is Reviewed: %s
`,
		dbs.CertificateNumber,
		dbs.Status,
		yesNo(dbs.IsValid),
		dbs.Result.Status,
		dbs.Result.FirstName, dbs.Result.LastName,
		dbs.Result.DataGenerated,
		dbs.ReviewedBy,
		dbs.ReviewedAt,
		yesNo(dbs.IsReviewed),
	)

	if err := writeFile(zw, "documents/DBS_Certificate_Details.txt", []byte(text)); err != nil {
		logger.Warn("Failed to write DBS details: %v", err)
	}
}

// addIdentityVerification writes one text projection per onfido result.
// Document photos are counted only; their binary content is never
// embedded by this pipeline.
func (b *ArchiveBuilder) addIdentityVerification(zw *zip.Writer, data *domain.ReportData) {
	for i, result := range data.OnfidoResults {
		num := i + 1
		text := fmt.Sprintf(`IDENTITY VERIFICATION #%d
============================
Verification Type: %s
Status: %s

Personal Information:
- Name: %s %s

Document Information:
- Document Type: %s
- Document Number: %s
- Issuing Country: %s
- Issuing Date: %s
- Expiry Date: %s

Verification Details:
- Completed At: %s
- Reviewed By: %s
- Reviewed At: %s
- Is Reviewed: %s

Document Photos: %d photo(s)
`,
			num,
			result.VerificationType,
			result.Status,
			result.FirstName, result.LastName,
			result.DocumentType,
			result.DocumentNumber,
			result.IssuingCountry,
			result.IssuingDate,
			result.ExpiryDate,
			result.CompletedAt,
			result.ReviewedBy,
			result.ReviewedAt,
			yesNo(result.IsReviewed),
			len(result.DocumentPhotos),
		)

		path := fmt.Sprintf("documents/identity_verification/identity_verification_%d.txt", num)
		if err := writeFile(zw, path, []byte(text)); err != nil {
			logger.Warn("Failed to write identity verification #%d: %v", num, err)
		}
	}
}

// addEmploymentHistory writes the consolidated employment text file.
func (b *ArchiveBuilder) addEmploymentHistory(zw *zip.Writer, data *domain.ReportData) {
	if len(data.EmploymentHistories) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString("EMPLOYMENT HISTORY\n==================\n")
	for i, emp := range data.EmploymentHistories {
		endDate := "Present"
		if emp.EndDate != nil && *emp.EndDate != "" {
			endDate = *emp.EndDate
		}
		gap := emp.GapExplanation
		if gap == "" {
			gap = "None"
		}
		fmt.Fprintf(&sb, `
%d. %s
   Role: %s
   Start Date: %s
   End Date: %s
   Verification Status: %s
   Is Current: %s
   Is Declared: %s
   Gap Explanation: %s
`,
			i+1, emp.CompanyName,
			emp.Role,
			emp.StartDate,
			endDate,
			emp.VerificationStatus,
			yesNo(emp.IsCurrent),
			yesNo(emp.IsDeclared),
			gap,
		)
	}

	if err := writeFile(zw, "documents/employment/Employment_History.txt", []byte(sb.String())); err != nil {
		logger.Warn("Failed to write employment history: %v", err)
	}
}

// manifest renders README.txt. Section order is fixed; downstream tooling
// parses this layout. Document counts reflect input totals, not the
// subset whose bytes were embedded.
func (b *ArchiveBuilder) manifest(data *domain.ReportData, stats domain.FetchStats, embed []domain.Artifact) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "COMPLIANCE REPORT PACKAGE\n=========================\n\n")
	fmt.Fprintf(&sb, "Report ID: %s\n", data.ID)
	fmt.Fprintf(&sb, "Generated: %s\n\n", b.now().Format("02/01/2006, 15:04:05"))

	fmt.Fprintf(&sb, "CANDIDATE INFORMATION\n---------------------\n")
	fmt.Fprintf(&sb, "Name: %s\n", data.Profile.UserFullName)
	fmt.Fprintf(&sb, "Email: %s\n", data.Profile.Email)
	fmt.Fprintf(&sb, "Phone: %s\n", data.Profile.Phone)
	fmt.Fprintf(&sb, "Address: %s\n\n", data.Profile.FullAddress)

	fmt.Fprintf(&sb, "VERIFICATION STATUS\n-------------------\n")
	fmt.Fprintf(&sb, "Overall Status: %s\n", data.VerificationStatus)
	fmt.Fprintf(&sb, "Employee Type: %s\n", data.EmployeeType)
	fmt.Fprintf(&sb, "Employment History Verified: %s\n", yesNo(data.IsEmploymentHistoryVerified))
	fmt.Fprintf(&sb, "Employment Reviewed: %s\n\n", yesNo(data.IsEmploymentReviewed))

	fmt.Fprintf(&sb, "CARE HOME INFORMATION\n---------------------\n")
	fmt.Fprintf(&sb, "Name: %s\n\n", data.CareHome.Name)

	fmt.Fprintf(&sb, "REVIEW INFORMATION\n------------------\n")
	fmt.Fprintf(&sb, "Reviewed By: %s\n", data.EmploymentReviewedBy)
	fmt.Fprintf(&sb, "Reviewed At: %s\n\n", data.EmploymentReviewedAt)

	fmt.Fprintf(&sb, "COMPLIANCE CHECKS\n-----------------\n")
	for _, check := range data.Checks {
		fmt.Fprintf(&sb, "- %s: %s\n", strings.ReplaceAll(check.Name, "_", " "), check.Description)
	}

	fmt.Fprintf(&sb, "\nTASK COMPLETION\n---------------\n")
	for _, item := range data.TodoItems {
		fmt.Fprintf(&sb, "- %s: %s\n", strings.ReplaceAll(item.TaskType, "_", " "), item.Status)
	}

	fmt.Fprintf(&sb, "\nPACKAGE CONTENTS\n----------------\n")
	for _, artifact := range embed {
		fmt.Fprintf(&sb, "- %s: Complete compliance report in PDF format\n", artifact.Filename)
	}
	fmt.Fprintf(&sb, "- documents/: All supporting documents organized by category\n")
	fmt.Fprintf(&sb, "  - cv/: Candidate's curriculum vitae\n")
	fmt.Fprintf(&sb, "  - supporting_documents/: Supporting documents grouped by type\n")
	fmt.Fprintf(&sb, "  - references/: Reference letters and attachments\n")
	fmt.Fprintf(&sb, "  - identity_verification/: Identity verification details\n")
	fmt.Fprintf(&sb, "  - employment/: Complete employment history\n")
	fmt.Fprintf(&sb, "  - DBS_Certificate_Details.txt: DBS check information\n")

	fmt.Fprintf(&sb, "\nDOCUMENT COUNTS\n---------------\n")
	fmt.Fprintf(&sb, "- Supporting Documents: %d\n", len(data.SupportingDocuments))
	fmt.Fprintf(&sb, "- References: %d\n", len(data.References))
	fmt.Fprintf(&sb, "- Identity Verification Results: %d\n", len(data.OnfidoResults))
	fmt.Fprintf(&sb, "- Employment Records: %d\n", len(data.EmploymentHistories))

	fmt.Fprintf(&sb, "\nDOWNLOAD STATISTICS\n-------------------\n")
	fmt.Fprintf(&sb, "Total files attempted: %d\n", stats.Attempted)
	fmt.Fprintf(&sb, "Successfully fetched: %d\n", stats.Fetched)
	fmt.Fprintf(&sb, "Failed to fetch: %d\n", stats.Failed)

	if stats.Failed > 0 {
		fmt.Fprintf(&sb, "\nNOTE: %d file(s) could not be downloaded due to network errors or missing URLs.\n", stats.Failed)
		fmt.Fprintf(&sb, "These files may need to be retrieved manually.\n")
	}

	return sb.String()
}

// referenceDetails renders one reference's detail text. All verification
// logs are included; zero logs renders as not verified.
func referenceDetails(ref *domain.Reference, num int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "REFERENCE #%d\n========================\n", num)
	fmt.Fprintf(&sb, "Referee Name: %s\n", ref.RefereeName)
	fmt.Fprintf(&sb, "Position: %s\n", ref.RefereeRole)
	fmt.Fprintf(&sb, "Company: %s\n", ref.CompanyName)
	fmt.Fprintf(&sb, "Email: %s\n", ref.RefereeEmail)
	fmt.Fprintf(&sb, "Phone: %s\n", ref.RefereePhoneNumber)
	fmt.Fprintf(&sb, "Type: %s\n\n", strings.ReplaceAll(ref.ReferenceType, "_", " "))

	fmt.Fprintf(&sb, "Date Received: %s\n", ref.ReferenceEntry.DateReceived)
	fmt.Fprintf(&sb, "Reference Notes:\n%s\n\n", ref.ReferenceEntry.Notes)

	fmt.Fprintf(&sb, "Verification Information:\n")
	if len(ref.VerificationLogs) == 0 {
		fmt.Fprintf(&sb, "Outcome: Not verified\n")
		return sb.String()
	}
	for _, log := range ref.VerificationLogs {
		additional := log.AdditionalNotes
		if additional == "" {
			additional = "N/A"
		}
		fmt.Fprintf(&sb, "Outcome: %s\n", log.VerificationOutcome)
		fmt.Fprintf(&sb, "Date Contacted: %s\n", log.DateContacted)
		fmt.Fprintf(&sb, "Verification Notes: %s\n", log.VerificationNotes)
		fmt.Fprintf(&sb, "Additional Notes: %s\n", additional)
		fmt.Fprintf(&sb, "Verified By: %s\n", log.VerifiedBy)
		fmt.Fprintf(&sb, "---\n")
	}
	return sb.String()
}

// writeFile adds one file entry to the archive.
func writeFile(zw *zip.Writer, path string, data []byte) error {
	w, err := zw.Create(path)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
