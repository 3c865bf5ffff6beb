package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// AnswerSheet describes one printable multiple-choice sheet batch. One page
// is rendered per student.
type AnswerSheet struct {
	ExamID        string
	Title         string
	ClassCode     string
	QuestionCount int
	ChoiceCount   int
	Students      []AnswerSheetStudent
}

// AnswerSheetStudent identifies one participant on the sheet.
type AnswerSheetStudent struct {
	StudentCode string
	FullName    string
}

// AnswerSheetGenerator renders machine-readable answer sheets. Each page
// carries a QR code encoding the exam and student identity so scanned sheets
// can be matched back without manual entry.
type AnswerSheetGenerator struct {
	qrBaseURL string
}

// NewAnswerSheetGenerator constructs a generator. qrBaseURL prefixes the
// QR payload; when empty the payload is the raw "examID/studentCode" pair.
func NewAnswerSheetGenerator(qrBaseURL string) *AnswerSheetGenerator {
	return &AnswerSheetGenerator{qrBaseURL: strings.TrimRight(qrBaseURL, "/")}
}

// Render produces the PDF for the whole batch.
func (g *AnswerSheetGenerator) Render(sheet AnswerSheet) ([]byte, error) {
	if sheet.QuestionCount < 1 {
		return nil, fmt.Errorf("answer sheet requires at least one question")
	}
	if sheet.ChoiceCount < 2 {
		return nil, fmt.Errorf("answer sheet requires at least two choices")
	}
	if len(sheet.Students) == 0 {
		return nil, fmt.Errorf("answer sheet requires at least one student")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)

	for _, student := range sheet.Students {
		if err := g.renderPage(pdf, sheet, student); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render answer sheet: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *AnswerSheetGenerator) renderPage(pdf *gofpdf.Fpdf, sheet AnswerSheet, student AnswerSheetStudent) error {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, sheet.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Class: %s", sheet.ClassCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Student: %s (%s)", student.FullName, student.StudentCode), "", 1, "L", false, 0, "")

	png, err := qrcode.Encode(g.qrPayload(sheet.ExamID, student.StudentCode), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	imageName := fmt.Sprintf("qr-%s-%s", sheet.ExamID, student.StudentCode)
	pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imageName, 165, 12, 30, 30, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(12)

	g.renderGrid(pdf, sheet)
	return nil
}

// renderGrid draws the bubble matrix. Rows flow down the page and wrap into
// a second column block past question 30 so a standard 60-question exam fits
// one page.
func (g *AnswerSheetGenerator) renderGrid(pdf *gofpdf.Fpdf, sheet AnswerSheet) {
	const (
		rowsPerColumn = 30
		rowHeight     = 8.0
		bubbleRadius  = 2.5
		bubbleSpacing = 9.0
		columnWidth   = 95.0
	)

	topY := pdf.GetY()
	pdf.SetFont("Arial", "", 9)
	pdf.SetDrawColor(40, 40, 40)

	for q := 1; q <= sheet.QuestionCount; q++ {
		column := (q - 1) / rowsPerColumn
		row := (q - 1) % rowsPerColumn
		x := 15.0 + float64(column)*columnWidth
		y := topY + float64(row)*rowHeight

		pdf.SetXY(x, y)
		pdf.CellFormat(10, rowHeight, fmt.Sprintf("%d", q), "", 0, "R", false, 0, "")
		for c := 1; c <= sheet.ChoiceCount; c++ {
			cx := x + 14 + float64(c-1)*bubbleSpacing
			cy := y + rowHeight/2
			pdf.Circle(cx, cy, bubbleRadius, "D")
			pdf.SetXY(cx-2, cy-2)
			pdf.CellFormat(4, 4, fmt.Sprintf("%d", c), "", 0, "C", false, 0, "")
		}
	}
}

func (g *AnswerSheetGenerator) qrPayload(examID, studentCode string) string {
	if g.qrBaseURL == "" {
		return fmt.Sprintf("%s/%s", examID, studentCode)
	}
	return fmt.Sprintf("%s/exams/%s/participants/%s", g.qrBaseURL, examID, studentCode)
}
