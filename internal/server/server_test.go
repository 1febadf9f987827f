package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vendapainel/vendapainel/internal/pipeline"
	"github.com/vendapainel/vendapainel/internal/schema"
	"github.com/vendapainel/vendapainel/internal/server"
	"github.com/vendapainel/vendapainel/internal/session"
)

const salesCSV = "Data Emissao,R$ Total,Nome Fantasia,Vendedor,FRANQUIA,Descrição Item,Categoria\n" +
	"04/03/2024,60000,Acme,Maria,Filial Sul,Copo,DESCARTAVEIS\n" +
	"06/03/2024,100,Beta,José,Filial Norte,Tampa,DESCARTAVEIS\n" +
	"07/03/2024,50,Beta,José,Filial Norte,Caixa,CAIXA DE PIZZA\n"

func newTestServer() *httptest.Server {
	pipe := pipeline.New(session.NewStore(), schema.ReportCustomer)
	return httptest.NewServer(server.New(pipe, 0).Routes())
}

func upload(t *testing.T, ts *httptest.Server, filename, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()
	resp, err := http.Post(ts.URL+"/upload", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("post upload: %v", err)
	}
	return resp
}

func TestUploadAndStatus(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := upload(t, ts, "faturamento.csv", salesCSV)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status: %d", resp.StatusCode)
	}
	var up struct {
		HasCustomers bool `json:"hasCustomers"`
		HasFranchise bool `json:"hasFranchise"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !up.HasCustomers || !up.HasFranchise {
		t.Fatalf("both views should be available: %+v", up)
	}

	st, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	defer st.Body.Close()
	var status map[string]any
	if err := json.NewDecoder(st.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status["loaded"] != true || status["filename"] != "faturamento.csv" {
		t.Fatalf("unexpected status: %v", status)
	}
}

func TestUploadSchemaError(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := upload(t, ts, "outro.csv", "Documento,Qtde\n1,2\n")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body["error"], "Nome Fantasia") {
		t.Fatalf("error should name missing columns: %q", body["error"])
	}
}

func TestViewAndFilters(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()
	upload(t, ts, "faturamento.csv", salesCSV).Body.Close()

	resp, err := http.Get(ts.URL + "/api/clientes/view?customer=Beta")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("view status: %d", resp.StatusCode)
	}
	var view struct {
		Empty         bool `json:"empty"`
		CustomerCount int  `json:"customerCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Empty || view.CustomerCount != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestViewUnavailableBeforeUpload(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/franquias/view")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestUnknownView(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/estoque/view")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestExportDownload(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()
	upload(t, ts, "faturamento.csv", salesCSV).Body.Close()

	resp, err := http.Get(ts.URL + "/api/franquias/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Relatorio_Analitico_Franquias.xlsx") {
		t.Fatalf("unexpected disposition: %q", cd)
	}
}

func TestExportNothingIsNoOp(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()
	upload(t, ts, "faturamento.csv", salesCSV).Body.Close()

	// Filial Norte's only remaining rows after exclusion: Tampa. Narrow
	// to the excluded-category item so the filtered result is empty.
	resp, err := http.Get(ts.URL + "/api/franquias/export?franchise=Filial+Norte&item=Caixa")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}
