package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"VetNutrition/internal/domain"
	"VetNutrition/internal/scanner"
)

const productPage = `
<html>
<head><meta property="og:title" content="Ração Fallback"></head>
<body>
  <span itemprop="brand">Premier</span>
  <h1>Nutrição Clínica Renal Cães Adultos</h1>
  <table>
    <tr><th>Níveis de garantia</th></tr>
    <tr><td>Umidade (máx.)</td><td>100 g/kg</td></tr>
    <tr><td>Proteína Bruta (mín.)</td><td>26,0% (260 g/kg)</td></tr>
    <tr><td>Extrato Etéreo (mín.)</td><td>170 g/kg</td></tr>
    <tr><td>Matéria Mineral</td><td>75 g/kg</td></tr>
    <tr><td>Fósforo (máx.)</td><td>3.000 mg/kg</td></tr>
    <tr><td>Taurina (mín.)</td><td>2.500 mg/kg</td></tr>
    <tr><td>Energia Metabolizável</td><td>3.950 kcal/kg</td></tr>
    <tr><td>pH urinário</td><td>6,2 a 6,8</td></tr>
  </table>
</body>
</html>`

func guarantee(t *testing.T, food domain.CommercialFood, key string) float64 {
	t.Helper()
	g, ok := food.FindGuarantee(key)
	if !ok {
		t.Fatalf("missing guarantee %s in %+v", key, food.Guarantees)
	}
	return g.Value
}

func TestGuaranteeTableScannerScan(t *testing.T) {
	t.Parallel()

	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(productPage))
	}))
	defer srv.Close()

	sc := NewGuaranteeTableScanner(srv.Client(), "test-agent", nil)
	sc.now = func() time.Time { return time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC) }

	food, err := sc.Scan(context.Background(), scanner.Request{
		URL:      srv.URL + "/produto/1",
		SiteName: "petz",
		Options:  map[string]string{"line": "Nutrição Clínica"},
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if userAgent != "test-agent" {
		t.Fatalf("user agent = %q", userAgent)
	}
	if food.Brand != "Premier" || food.Line != "Nutrição Clínica" || food.Product != "Nutrição Clínica Renal Cães Adultos" {
		t.Fatalf("names = %q / %q / %q", food.Brand, food.Line, food.Product)
	}
	if food.Species != domain.SpeciesDog {
		t.Fatalf("species = %s", food.Species)
	}
	if food.MEKcalPerKg != 3950 {
		t.Fatalf("me = %v", food.MEKcalPerKg)
	}

	checks := map[string]float64{
		domain.KeyMoistureMax:   100,
		domain.KeyProteinMin:    260,
		domain.KeyFatMin:        170,
		domain.KeyAshMax:        75,
		domain.KeyPhosphorusMax: 3000,
		domain.KeyTaurineMin:    2500,
		domain.KeyUrinaryPHMin:  6.2,
		domain.KeyUrinaryPHMax:  6.8,
	}
	for key, want := range checks {
		if got := guarantee(t, food, key); got != want {
			t.Fatalf("%s = %v, want %v", key, got, want)
		}
	}

	if len(food.Sources) != 1 || food.Sources[0].Label != "petz" || !strings.HasSuffix(food.Sources[0].URL, "/produto/1") {
		t.Fatalf("sources = %+v", food.Sources)
	}
	if food.UpdatedAt != "2026-03-04" {
		t.Fatalf("updatedAt = %s", food.UpdatedAt)
	}
}

func TestGuaranteeTableScannerErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><body><h1>Brinquedo</h1></body></html>`))
	}))
	defer srv.Close()

	sc := NewGuaranteeTableScanner(srv.Client(), "", nil)
	ctx := context.Background()

	if _, err := sc.Scan(ctx, scanner.Request{SiteName: "petz"}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := sc.Scan(ctx, scanner.Request{URL: srv.URL + "/missing"}); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
	if _, err := sc.Scan(ctx, scanner.Request{URL: srv.URL + "/toy"}); err == nil || !strings.Contains(err.Error(), "no guarantee table") {
		t.Fatalf("expected missing table error, got %v", err)
	}
}

func TestParseProductPageFallbacks(t *testing.T) {
	t.Parallel()

	html := `
	<html><head>
	  <meta property="product:brand" content="Hill's">
	  <meta property="og:title" content="Prescription Diet c/d Gatos">
	</head><body>
	  <table><tr><td>Energia metabolizável</td><td>3,9 kcal/g</td></tr></table>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	food := parseProductPage(doc, nil)
	if food.Brand != "Hill's" || food.Product != "Prescription Diet c/d Gatos" {
		t.Fatalf("fallback names = %q / %q", food.Brand, food.Product)
	}
	if food.Species != domain.SpeciesCat {
		t.Fatalf("species = %s", food.Species)
	}
	if food.MEKcalPerKg < 3899.99 || food.MEKcalPerKg > 3900.01 {
		t.Fatalf("me = %v", food.MEKcalPerKg)
	}

	forced := parseProductPage(doc, map[string]string{"species": "cão", "brand": " Outra "})
	if forced.Species != domain.SpeciesDog || forced.Brand != "Outra" {
		t.Fatalf("options ignored: %s / %q", forced.Species, forced.Brand)
	}
}

func TestApplyRowBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label string
		value string
		key   string
		want  float64
	}{
		{"Matéria fibrosa", "3,5%", domain.KeyFiberMax, 35},
		{"Fibra bruta (mín.)", "20 g/kg", "fiber_min_gkg", 20},
		{"Matéria mineral (máx.)", "8%", domain.KeyAshMax, 80},
		{"Proteína bruta", "300 g/kg", domain.KeyProteinMin, 300},
		{"Cálcio (mínimo)", "0,8%", "calcium_min_mgkg", 8000},
		{"Cálcio (máximo)", "12 g/kg", "calcium_max_mgkg", 12000},
		{"Ômega 3 (mín.)", "4.000 mg/kg", "omega3_min_mgkg", 4000},
		{"Sódio (mín.)", "1.500 ppm", "sodium_min_mgkg", 1500},
	}
	for _, tc := range cases {
		var food domain.CommercialFood
		applyRow(&food, tc.label, tc.value)
		if len(food.Guarantees) != 1 {
			t.Fatalf("%s: guarantees = %+v", tc.label, food.Guarantees)
		}
		g := food.Guarantees[0]
		if g.Key != tc.key || g.Value < tc.want-1e-6 || g.Value > tc.want+1e-6 {
			t.Fatalf("%s: got %s=%v, want %s=%v", tc.label, g.Key, g.Value, tc.key, tc.want)
		}
	}

	var food domain.CommercialFood
	applyRow(&food, "Embalagem", "10 kg")
	applyRow(&food, "Proteína bruta", "não informado")
	if len(food.Guarantees) != 0 {
		t.Fatalf("unrelated rows produced guarantees: %+v", food.Guarantees)
	}
}

func TestParseBRNumber(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"1.234,5": 1234.5,
		"26,0":    26,
		"4.180":   4180,
		"3500":    3500,
		"6.5":     6.5,
		"12.":     12,
	}
	for raw, want := range cases {
		got, err := parseBRNumber(raw)
		if err != nil {
			t.Fatalf("parseBRNumber(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("parseBRNumber(%q) = %v, want %v", raw, got, want)
		}
	}
}
