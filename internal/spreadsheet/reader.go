package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talentoplus/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Columns 是导入文件中员工信息的列数
const Columns = 14

// ReadRows 读取表格的第一个工作表，跳过完全空白的行和第一个非空行(表头)，每行补齐到 Columns 列
func ReadRows(filename string, r io.Reader) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, domain.ErrUnsupportedFileType
	}
	if err != nil {
		return nil, err
	}

	// 表头是第一个非空行，前面可能有空行
	result := make([][]string, 0, len(rows))
	headerSeen := false
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		padded := make([]string, Columns)
		for i := 0; i < Columns && i < len(row); i++ {
			padded[i] = strings.TrimSpace(row[i])
		}
		result = append(result, padded)
	}

	return result, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("无法打开表格: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("表格中没有工作表")
	}

	// 使用原始值，日期单元格会以序列号的形式返回
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("无法解析 CSV: %w", err)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	return rows, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"2006/01/02",
}

// Excel 能表示的最大日期 9999-12-31
const maxExcelSerial = 2958465

// ParseDate 解析日期单元格，无法识别时返回零值
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial <= 0 || serial > maxExcelSerial {
		return time.Time{}
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}
	}

	return t
}

// ParseSalary 解析薪资，无法识别时返回 0
func ParseSalary(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}
