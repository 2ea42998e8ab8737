package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"

	"pricecharts/domain/dataset"
)

// CatalogueGeneratorConfig configures the product catalogue generator
type CatalogueGeneratorConfig struct {
	ProductCount   int     `json:"product_count"`
	MalformedRate  float64 `json:"malformed_rate"`
	MissingRate    float64 `json:"missing_rate"`
	CurrencySymbol string  `json:"currency_symbol"`
	Seed           int64   `json:"seed"`
}

// DefaultCatalogueConfig returns sensible defaults for catalogue generation
func DefaultCatalogueConfig() CatalogueGeneratorConfig {
	return CatalogueGeneratorConfig{
		ProductCount:   500,
		MalformedRate:  0.02,
		MissingRate:    0.03,
		CurrencySymbol: "£",
		Seed:           42,
	}
}

// Header is the column order of generated catalogues
var Header = []string{
	dataset.ColumnProductName,
	dataset.ColumnPrice,
	dataset.ColumnRating,
	dataset.ColumnReviews,
	dataset.ColumnSubCategory,
	dataset.ColumnMainCategory,
}

type subCategory struct {
	name      string
	nouns     []string
	medianGBP float64
}

// taxonomy maps each main category to its sub categories
var taxonomy = []struct {
	main string
	subs []subCategory
}{
	{"Kitchen", []subCategory{
		{"Kettles", []string{"Kettle", "Travel Kettle"}, 35},
		{"Toasters", []string{"Toaster", "Sandwich Toaster"}, 40},
		{"Cookware", []string{"Frying Pan", "Saucepan Set", "Wok"}, 55},
		{"Cutlery", []string{"Knife Block", "Cutlery Set"}, 30},
	}},
	{"Home", []subCategory{
		{"Lamps", []string{"Desk Lamp", "Floor Lamp"}, 45},
		{"Clocks", []string{"Wall Clock", "Alarm Clock"}, 20},
		{"Bedding", []string{"Duvet", "Pillow Pair", "Throw"}, 38},
	}},
	{"Garden", []subCategory{
		{"Tools", []string{"Rake", "Trowel", "Pruner"}, 18},
		{"Furniture", []string{"Bench", "Parasol", "Lounger"}, 120},
	}},
	{"Electronics", []subCategory{
		{"Headphones", []string{"Earbuds", "Headphones"}, 60},
		{"Speakers", []string{"Smart Speaker", "Soundbar"}, 90},
		{"Cables", []string{"USB-C Cable", "HDMI Cable"}, 9},
	}},
}

var adjectives = []string{"Classic", "Compact", "Deluxe", "Eco", "Pro", "Smart", "Vintage", "Essential"}

// malformedValues are the kinds of junk a scraped catalogue contains
var malformedValues = []string{"N/A", "see site", "-", "TBC"}

// CatalogueGenerator generates a synthetic product catalogue
type CatalogueGenerator struct {
	config CatalogueGeneratorConfig
	rng    *rand.Rand
}

// NewCatalogueGenerator creates a new catalogue generator
func NewCatalogueGenerator(config CatalogueGeneratorConfig) *CatalogueGenerator {
	return &CatalogueGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateRows returns ProductCount data rows in Header order.
// The same seed always yields the same rows.
func (g *CatalogueGenerator) GenerateRows() [][]string {
	rows := make([][]string, 0, g.config.ProductCount)
	for i := 0; i < g.config.ProductCount; i++ {
		rows = append(rows, g.generateProduct(i))
	}
	return rows
}

func (g *CatalogueGenerator) generateProduct(i int) []string {
	group := taxonomy[g.rng.Intn(len(taxonomy))]
	// Skew towards the first sub categories so frequency ranking is stable
	sub := group.subs[int(math.Floor(math.Pow(g.rng.Float64(), 1.6)*float64(len(group.subs))))]
	noun := sub.nouns[g.rng.Intn(len(sub.nouns))]
	name := fmt.Sprintf("%s %s %03d", adjectives[g.rng.Intn(len(adjectives))], noun, i+1)

	// Log-normal price around the sub category median
	price := sub.medianGBP * math.Exp(g.rng.NormFloat64()*0.45)
	// Pricier items rate slightly higher
	rating := 3.2 + 0.4*math.Log10(price) + g.rng.NormFloat64()*0.6
	rating = math.Max(1, math.Min(5, rating))
	// Heavy tail: most products have few reviews
	reviews := int(math.Floor(math.Pow(g.rng.Float64(), 3) * 2500))

	return []string{
		name,
		g.maybeCorrupt(g.formatPrice(price)),
		g.maybeCorrupt(strconv.FormatFloat(math.Round(rating*10)/10, 'f', 1, 64)),
		g.maybeCorrupt(strconv.Itoa(reviews)),
		g.maybeBlank(sub.name),
		group.main,
	}
}

// formatPrice renders a price the way a scraped catalogue does, with a
// currency symbol and thousands separators.
func (g *CatalogueGenerator) formatPrice(price float64) string {
	pence := int64(math.Round(price * 100))
	whole := strconv.FormatInt(pence/100, 10)
	for i := len(whole) - 3; i > 0; i -= 3 {
		whole = whole[:i] + "," + whole[i:]
	}
	return fmt.Sprintf("%s%s.%02d", g.config.CurrencySymbol, whole, pence%100)
}

func (g *CatalogueGenerator) maybeCorrupt(value string) string {
	r := g.rng.Float64()
	switch {
	case r < g.config.MissingRate:
		return ""
	case r < g.config.MissingRate+g.config.MalformedRate:
		return malformedValues[g.rng.Intn(len(malformedValues))]
	default:
		return value
	}
}

func (g *CatalogueGenerator) maybeBlank(value string) string {
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return value
}

// WriteCSV writes the header and generated rows as CSV
func (g *CatalogueGenerator) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(g.GenerateRows()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteFile writes a generated catalogue to path, replacing any existing file
func (g *CatalogueGenerator) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := g.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
