package resume

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/talentoplus/backend/internal/domain"
)

const (
	margin     = 20.0 // mm
	lineHeight = 6.0
	fontFamily = "Arial"
	brand      = "TalentoPlus"
)

func Filename(e *domain.Employee) string {
	return fmt.Sprintf("HojaVida_%s.pdf", e.Document)
}

// Render 把员工信息排版成一页 A4 的简历
func Render(w io.Writer, e *domain.Employee) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(e.FullName(), true)
	pdf.SetAuthor(brand, false)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin + 5)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generado automáticamente por el sistema %s - %d", brand, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*margin

	// 页眉
	pdf.SetFont(fontFamily, "B", 20)
	pdf.SetTextColor(0, 51, 153)
	pdf.CellFormat(contentWidth-40, 10, tr(e.FullName()), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "B", 12)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(40, 10, brand, "", 1, "R", false, 0, "")

	pdf.SetFont(fontFamily, "", 14)
	pdf.CellFormat(contentWidth, 8, tr(strings.ToUpper(e.Title)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// 个人简介
	pdf.SetTextColor(0, 0, 0)
	sectionTitle(pdf, tr, "Perfil Profesional", contentWidth)
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(contentWidth, lineHeight, tr(e.Profile), "", "J", false)
	pdf.Ln(4)

	y := pdf.GetY()
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(margin, y, margin+contentWidth, y)
	pdf.Ln(6)

	// 两列信息
	columnWidth := contentWidth / 2
	pdf.SetFont(fontFamily, "B", 13)
	pdf.SetTextColor(0, 51, 153)
	pdf.CellFormat(columnWidth, 8, tr("Información Laboral"), "", 0, "L", false, 0, "")
	pdf.CellFormat(columnWidth, 8, "Datos de Contacto", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	left := [][2]string{
		{"Departamento", e.DepartmentName("Sin asignar")},
		{"Fecha de ingreso", formatDate(e)},
		{"Estado", e.Status},
		{"Salario", FormatMoney(e.Salary)},
	}
	right := [][2]string{
		{"Email", e.Email},
		{"Teléfono", e.Phone},
		{"Dirección", e.Address},
		{"Nivel educativo", e.EducationLevel},
	}

	for i := range left {
		field(pdf, tr, left[i], columnWidth, 0)
		field(pdf, tr, right[i], columnWidth, 1)
	}

	if pdf.Err() {
		return pdf.Error()
	}

	return pdf.Output(w)
}

func sectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string, width float64) {
	pdf.SetFont(fontFamily, "B", 13)
	pdf.SetTextColor(0, 51, 153)
	pdf.CellFormat(width, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func field(pdf *gofpdf.Fpdf, tr func(string) string, kv [2]string, width float64, ln int) {
	pdf.SetFont(fontFamily, "B", 11)
	label := tr(kv[0] + ": ")
	labelWidth := pdf.GetStringWidth(label) + 1
	pdf.CellFormat(labelWidth, lineHeight+1, label, "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(width-labelWidth, lineHeight+1, tr(kv[1]), "", ln, "L", false, 0, "")
}

func formatDate(e *domain.Employee) string {
	if e.HireDate.IsZero() {
		return "-"
	}
	return e.HireDate.Format("02/01/2006")
}

// FormatMoney 格式化金额，例如 1234567.5 -> $1,234,567.50
func FormatMoney(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	integer, fraction, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), fraction)
}
