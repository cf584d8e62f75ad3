package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"VetNutrition/internal/domain"
	"VetNutrition/internal/scanner"
)

// GuaranteeTableName is the registry name of GuaranteeTableScanner.
const GuaranteeTableName = "guarantee-table"

var numberExpr = regexp.MustCompile(`\d[\d.,]*`)

// GuaranteeTableScanner reads product pages that publish the guaranteed
// analysis as an HTML table of label/value rows.
type GuaranteeTableScanner struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
	now       func() time.Time
}

// NewGuaranteeTableScanner wires an HTTP client; a nil client gets a 20s timeout.
func NewGuaranteeTableScanner(client *http.Client, userAgent string, log *slog.Logger) *GuaranteeTableScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = "VetNutrition/1.0"
	}
	return &GuaranteeTableScanner{client: client, userAgent: userAgent, logger: log, now: time.Now}
}

// Name identifies the strategy inside the registry.
func (g *GuaranteeTableScanner) Name() string {
	return GuaranteeTableName
}

// Scan fetches one product page and drafts a commercial food from it.
// Options may set brand, line, product and species when the page lacks them.
func (g *GuaranteeTableScanner) Scan(ctx context.Context, req scanner.Request) (domain.CommercialFood, error) {
	if req.URL == "" {
		return domain.CommercialFood{}, fmt.Errorf("no url provided for site %s", req.SiteName)
	}

	doc, err := g.fetchDocument(ctx, req.URL)
	if err != nil {
		return domain.CommercialFood{}, err
	}

	food := parseProductPage(doc, req.Options)
	if food.MEKcalPerKg == 0 && len(food.Guarantees) == 0 {
		return domain.CommercialFood{}, fmt.Errorf("no guarantee table found at %s", req.URL)
	}

	food.Sources = []domain.Source{{Label: req.SiteName, URL: req.URL}}
	food.UpdatedAt = g.now().UTC().Format("2006-01-02")
	g.debug("page scanned", "url", req.URL, "guarantees", len(food.Guarantees), "me", food.MEKcalPerKg)
	return food, nil
}

func (g *GuaranteeTableScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func parseProductPage(doc *goquery.Document, opts map[string]string) domain.CommercialFood {
	food := domain.CommercialFood{
		Brand:        firstNonEmpty(opts["brand"], doc.Find("[itemprop=brand]").First().Text(), metaContent(doc, "product:brand")),
		Line:         strings.TrimSpace(opts["line"]),
		Product:      firstNonEmpty(opts["product"], doc.Find("h1").First().Text(), metaContent(doc, "og:title")),
		LifeStage:    domain.LifeStageAll,
		NeuterStatus: domain.NeuterAny,
	}

	if s, err := domain.ParseSpecies(opts["species"]); err == nil {
		food.Species = s
	} else {
		food.Species = inferSpecies(food.Product)
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		label := normalizeSpace(cells.Eq(0).Text())
		value := normalizeSpace(cells.Eq(1).Text())
		applyRow(&food, label, value)
	})

	return food
}

// nutrientRule maps a table label to a guarantee key prefix.
type nutrientRule struct {
	needles []string
	base    string
	mg      bool
	// defaultMax is used when the label names no bound.
	defaultMax bool
}

var nutrientRules = []nutrientRule{
	{needles: []string{"umidade"}, base: "moisture", defaultMax: true},
	{needles: []string{"proteína", "proteina"}, base: "protein"},
	{needles: []string{"extrato etéreo", "extrato etereo", "gordura"}, base: "fat"},
	{needles: []string{"matéria fibrosa", "materia fibrosa", "fibra"}, base: "fiber", defaultMax: true},
	{needles: []string{"matéria mineral", "materia mineral", "cinzas"}, base: "ash", defaultMax: true},
	{needles: []string{"cálcio", "calcio"}, base: "calcium", mg: true},
	{needles: []string{"fósforo", "fosforo"}, base: "phosphorus", mg: true},
	{needles: []string{"sódio", "sodio"}, base: "sodium", mg: true},
	{needles: []string{"potássio", "potassio"}, base: "potassium", mg: true},
	{needles: []string{"taurina"}, base: "taurine", mg: true},
	{needles: []string{"metionina"}, base: "methionine", mg: true},
	{needles: []string{"l-carnitina", "carnitina"}, base: "l_carnitine", mg: true},
	{needles: []string{"ômega 3", "omega 3", "ômega-3", "omega-3"}, base: "omega3", mg: true},
	{needles: []string{"ômega 6", "omega 6", "ômega-6", "omega-6"}, base: "omega6", mg: true},
}

func applyRow(food *domain.CommercialFood, label, value string) {
	lower := strings.ToLower(label)

	switch {
	case strings.Contains(lower, "energia metabolizável") || strings.Contains(lower, "energia metabolizavel"):
		if v, unit, ok := parseQuantity(value); ok {
			if unit == "kcal/g" {
				v *= 1000
			}
			food.MEKcalPerKg = v
		}
		return
	case strings.Contains(lower, "ph urin"):
		nums := numberExpr.FindAllString(value, -1)
		if len(nums) >= 2 {
			lo, errLo := parseBRNumber(nums[0])
			hi, errHi := parseBRNumber(nums[1])
			if errLo == nil && errHi == nil {
				food.Guarantees = append(food.Guarantees,
					domain.Guarantee{Key: domain.KeyUrinaryPHMin, Value: lo, Unit: domain.UnitPH},
					domain.Guarantee{Key: domain.KeyUrinaryPHMax, Value: hi, Unit: domain.UnitPH},
				)
			}
		}
		return
	}

	for _, rule := range nutrientRules {
		if !containsAny(lower, rule.needles) {
			continue
		}
		v, unit, ok := parseQuantity(value)
		if !ok {
			return
		}
		bound := "min"
		if b := declaredBound(lower); b == "max" || (b == "" && rule.defaultMax) {
			bound = "max"
		}
		g := domain.Guarantee{Key: rule.base + "_" + bound + "_gkg", Unit: domain.UnitGPerKg, Value: toGPerKg(v, unit)}
		if rule.mg {
			g = domain.Guarantee{Key: rule.base + "_" + bound + "_mgkg", Unit: domain.UnitMgPerKg, Value: toMgPerKg(v, unit)}
		}
		food.Guarantees = append(food.Guarantees, g)
		return
	}
}

// declaredBound returns "min", "max" or "" for labels like "Umidade (máx.)".
func declaredBound(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		switch w {
		case "máx", "max", "máximo", "maximo":
			return "max"
		case "mín", "min", "mínimo", "minimo":
			return "min"
		}
	}
	return ""
}

// parseQuantity reads the first number and its unit from a table cell.
func parseQuantity(text string) (float64, string, bool) {
	loc := numberExpr.FindStringIndex(text)
	if loc == nil {
		return 0, "", false
	}
	v, err := parseBRNumber(text[loc[0]:loc[1]])
	if err != nil {
		return 0, "", false
	}

	rest := strings.ToLower(strings.TrimSpace(text[loc[1]:]))
	for _, unit := range []string{"kcal/kg", "kcal/g", "mg/kg", "g/kg", "ppm", "%"} {
		if strings.HasPrefix(rest, unit) {
			return v, unit, true
		}
	}
	return v, "", true
}

// parseBRNumber accepts "1.234,5", "26,0", "4.180" and "3500".
func parseBRNumber(raw string) (float64, error) {
	s := strings.TrimRight(raw, ".,")
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case thousandsExpr.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return strconv.ParseFloat(s, 64)
}

var thousandsExpr = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

func toGPerKg(v float64, unit string) float64 {
	switch unit {
	case "%":
		return v * 10
	case "mg/kg", "ppm":
		return v / 1000
	default:
		return v
	}
}

func toMgPerKg(v float64, unit string) float64 {
	switch unit {
	case "%":
		return v * 10000
	case "g/kg":
		return v * 1000
	default:
		return v
	}
}

func inferSpecies(product string) domain.Species {
	lower := strings.ToLower(product)
	if strings.Contains(lower, "gato") || strings.Contains(lower, "felino") {
		return domain.SpeciesCat
	}
	return domain.SpeciesDog
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf("meta[property=%q]", property)).First().Attr("content")
	return content
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = normalizeSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func (g *GuaranteeTableScanner) debug(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
