package decode_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/vendapainel/vendapainel/internal/dataset"
	"github.com/vendapainel/vendapainel/internal/decode"
)

func TestDecodeCSV(t *testing.T) {
	data := []byte("Data Emissao,R$ Total,Nome Fantasia,Vendedor\n01/02/2024,100,Acme,Maria\n02/02/2024,50,Beta,José\n")
	tab, err := decode.Decode(data, "faturamento.csv")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tab.Columns) != 4 || len(tab.Rows) != 2 {
		t.Fatalf("unexpected shape: %d cols, %d rows", len(tab.Columns), len(tab.Rows))
	}
	if tab.Cell(1, 2) != "Beta" {
		t.Fatalf("unexpected cell: %q", tab.Cell(1, 2))
	}
}

func TestDecodeCSVShortRows(t *testing.T) {
	data := []byte("A,B,C\n1,2\n")
	tab, err := decode.Decode(data, "dados.csv")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := tab.Cell(0, 2); got != "" {
		t.Fatalf("short row should pad with nulls, got %q", got)
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	_, err := decode.Decode(nil, "vazio.csv")
	var de *decode.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestDecodeDuplicateColumns(t *testing.T) {
	data := []byte("Data Emissao, Data Emissao ,R$ Total\n01/01/2024,02/01/2024,9\n")
	_, err := decode.Decode(data, "dup.csv")
	var dup *dataset.DuplicateColumnError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateColumnError, got %v", err)
	}
}

func xlsxFixture(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	rows := [][]any{
		{"Data Emissao", "R$ Total", "Nome Fantasia", "Vendedor"},
		{"05/03/2024", 120.5, "Acme", "Maria"},
		{"06/03/2024", 80, "Beta", "José"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeXLSX(t *testing.T) {
	tab, err := decode.Decode(xlsxFixture(t), "faturamento.xlsx")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tab.Columns) != 4 || len(tab.Rows) != 2 {
		t.Fatalf("unexpected shape: %d cols, %d rows", len(tab.Columns), len(tab.Rows))
	}
	if tab.Cell(0, 2) != "Acme" {
		t.Fatalf("unexpected cell: %q", tab.Cell(0, 2))
	}
}

func TestDecodeXLSXNamedAsLegacyXLS(t *testing.T) {
	// Exported files are often renamed; a zip container behind a ".xls"
	// name must still decode via the xlsx path.
	tab, err := decode.Decode(xlsxFixture(t), "faturamento.xls")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("unexpected row count: %d", len(tab.Rows))
	}
}

func TestDecodeCorruptWorkbook(t *testing.T) {
	_, err := decode.Decode([]byte("definitely not a workbook"), "quebrado.xlsx")
	var de *decode.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}
