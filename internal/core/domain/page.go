package domain

// Report page identifiers. Each rendered report section tags its root
// element with a stable data-page marker carrying one of these values.
const (
	PageCover                 = "cover"
	PageEmploymentHistory     = "employment-history"
	PagePreEmployment         = "pre-employment"
	PageProofOfAddress        = "proof-of-address"
	PageProofOfIdentification = "proof-of-identification"
	PageReferences            = "references"
	PageSupportingDocuments   = "supporting-documents"
)

// PageOrder is the fixed presentation order of report pages in the
// exported document. Pages absent from the live view are skipped.
var PageOrder = []string{
	PageCover,
	PageEmploymentHistory,
	PagePreEmployment,
	PageProofOfAddress,
	PageProofOfIdentification,
	PageReferences,
	PageSupportingDocuments,
}

// PageMarkerAttr is the attribute that tags a report page's root element.
const PageMarkerAttr = "data-page"
