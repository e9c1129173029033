package controllers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/register/domain/roi"
)

type exportQuery struct {
	Format string `form:"format"`
}

type ValidationResponse struct {
	ReferenceDate    string                   `json:"reference_date"`
	Valid            bool                     `json:"valid"`
	RowCount         int                      `json:"row_count"`
	ErrorCount       int                      `json:"error_count"`
	WarningCount     int                      `json:"warning_count"`
	Completeness     string                   `json:"completeness"`
	IssuesByTemplate map[roi.TemplateCode]int `json:"issues_by_template"`
	Issues           []roi.Issue              `json:"issues"`
}

func toValidationResponse(report roi.Report, now time.Time) ValidationResponse {
	byTemplate := make(map[roi.TemplateCode]int, len(roi.Templates))
	for _, t := range roi.Templates {
		byTemplate[t] = 0
	}
	for _, is := range report.Issues {
		byTemplate[is.Template]++
	}
	return ValidationResponse{
		ReferenceDate:    now.Format("2006-01-02"),
		Valid:            report.Valid(),
		RowCount:         report.RowCount,
		ErrorCount:       report.ErrorCount,
		WarningCount:     report.WarningCount,
		Completeness:     report.Completeness.StringFixed(2),
		IssuesByTemplate: byTemplate,
		Issues:           report.Issues,
	}
}
