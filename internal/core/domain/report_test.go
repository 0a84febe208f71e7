package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileSafeName tests filename sanitisation
func TestFileSafeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Jane Doe", "Jane_Doe"},
		{"multiple spaces", "Jane   Doe", "Jane_Doe"},
		{"tabs and newlines", "Jane\tDoe\nSmith", "Jane_Doe_Smith"},
		{"punctuation stripped", "O'Brien-Smith, Jane", "OBrienSmith_Jane"},
		{"leading and trailing space", "  Jane Doe  ", "Jane_Doe"},
		{"digits kept", "Agent 007", "Agent_007"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileSafeName(tt.input))
		})
	}
}

// TestReportData_EmployeeFileName tests the artifact filename prefix
func TestReportData_EmployeeFileName(t *testing.T) {
	data := ReportData{
		Profile: Profile{UserFullName: "Mary Jane O'Hara"},
	}
	assert.Equal(t, "Mary_Jane_OHara", data.EmployeeFileName())
}

// TestDecodeReport tests JSON decoding with wire field names
func TestDecodeReport(t *testing.T) {
	payload := `{
		"status": "success",
		"message": "ok",
		"code": "200",
		"data": {
			"id": "rep-001",
			"employee_type": "permanent",
			"verification_status": "verified",
			"profile": {
				"user_full_name": "Jane Doe",
				"email": "jane@example.com",
				"full_address": "1 High St",
				"phone": "0700000000"
			},
			"cv": {"id": "cv-1", "file": "cv.pdf", "file_size": 1024, "url": "https://files.example.com/cv.pdf"},
			"supporting_documents": [
				{"id": "doc_001", "document": "passport.jpg", "document_type": "identity", "file_url": "https://files.example.com/passport.jpg"}
			],
			"references": [],
			"dbs_information": {
				"certificate_number": "0012345678",
				"is_valid": true,
				"result": {"status": "clear", "first_name": "Jane", "last_name": "Doe", "data_generated": "2024-01-05"}
			}
		}
	}`

	report, err := DecodeReport(strings.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, "rep-001", report.Data.ID)
	assert.Equal(t, "Jane Doe", report.Data.Profile.UserFullName)
	assert.Equal(t, "https://files.example.com/cv.pdf", report.Data.CV.URL)
	require.Len(t, report.Data.SupportingDocuments, 1)
	assert.Equal(t, "identity", report.Data.SupportingDocuments[0].DocumentType)
	assert.True(t, report.Data.DBSInformation.IsValid)
	assert.Equal(t, "clear", report.Data.DBSInformation.Result.Status)
}

// TestDecodeReport_NilCollections tests that absent collections decode to
// empty slices, not nil
func TestDecodeReport_NilCollections(t *testing.T) {
	report, err := DecodeReport(strings.NewReader(`{"data": {"id": "rep-002"}}`))
	require.NoError(t, err)

	assert.NotNil(t, report.Data.SupportingDocuments)
	assert.NotNil(t, report.Data.EmploymentHistories)
	assert.NotNil(t, report.Data.References)
	assert.NotNil(t, report.Data.OnfidoResults)
	assert.NotNil(t, report.Data.Checks)
	assert.NotNil(t, report.Data.TodoItems)
	assert.Empty(t, report.Data.References)
}

// TestDecodeReport_Invalid tests malformed input
func TestDecodeReport_Invalid(t *testing.T) {
	_, err := DecodeReport(strings.NewReader("{not json"))
	assert.Error(t, err)
}
