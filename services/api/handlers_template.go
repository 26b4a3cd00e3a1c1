package api

import (
	"io"
	"net/http"

	"tallyd/pkg/xlsx"
)

// WriteTemplateWorkbook renders the import template as a ready-to-fill
// workbook: header row plus example rows.
func WriteTemplateWorkbook(w io.Writer) error {
	return xlsx.EncodeRows(w, templateHeaders, templateRows)
}

// handleTemplate describes the import sheet format: ordered columns, their
// meanings, and a few example rows. format=xlsx returns the same content as a
// ready-to-fill workbook.
func (a *API) handleTemplate(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", workbookContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="asset_import_template.xlsx"`)
		if err := WriteTemplateWorkbook(w); err != nil {
			a.logger.Printf("ERROR template workbook write failed: %v", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"columns":      templateHeaders,
		"descriptions": templateColumnDescriptions,
		"rows":         templateRows,
	})
}
