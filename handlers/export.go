package handlers

import (
	"net/http"

	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"

	"bankapp/bank"
)

// ExportStatement renders the primary account history as a downloadable
// file. ?format=pdf or ?format=xlsx; anything else is rejected.
func (s *Server) ExportStatement(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "pdf" && format != "xlsx" {
		http.Error(w, "format must be pdf or xlsx", http.StatusBadRequest)
		return
	}

	sess, _ := s.resolve(w, r)
	var entries []bank.Entry
	var err error
	sess.Do(func(svc *bank.Service) { entries, err = svc.Entries() })
	if err != nil {
		writeMessage(w, "Statement export needs a logged-in customer with an account.", err)
		return
	}

	switch format {
	case "pdf":
		exportPDF(w, entries)
	case "xlsx":
		exportXLSX(w, entries)
	}
}

func exportPDF(w http.ResponseWriter, entries []bank.Entry) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Account Statement")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(60, 7, "Date")
	pdf.Cell(60, 7, "Kind")
	pdf.Cell(40, 7, "Amount")
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 12)
	for _, e := range entries {
		pdf.CellFormat(60, 7, e.Time.Format("2006-01-02 15:04:05"), "1", 0, "", false, 0, "")
		pdf.CellFormat(60, 7, e.Kind.Label(), "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, e.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.pdf"`)
	if err := pdf.Output(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func exportXLSX(w http.ResponseWriter, entries []bank.Entry) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Statement")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	row := sheet.AddRow()
	row.AddCell().SetValue("Date")
	row.AddCell().SetValue("Kind")
	row.AddCell().SetValue("Amount")

	for _, e := range entries {
		row = sheet.AddRow()
		row.AddCell().SetValue(e.Time.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(e.Kind.Label())
		row.AddCell().SetValue(e.Amount.StringFixed(2))
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.xlsx"`)
	if err := file.Write(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
