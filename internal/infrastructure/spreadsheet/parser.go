// Package spreadsheet parses marketplace export files (.xlsx) into rows the
// matching flows can consume. Each platform names its columns differently, so
// parsing is driven by per-platform column mapping tables with a best-effort
// guesser as the fallback.
package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// ErrEmptyResult signals that no row survived filtering. An all-zero result
// almost always means the column mapping missed, so it is surfaced as a
// user-facing error rather than a silent empty list.
var ErrEmptyResult = shared.NewDomainError("EMPTY_RESULT", "no usable rows found, check the file format")

// ParsedRow is one accepted row of a vendor export
type ParsedRow struct {
	// Barcode is the matching key against the local catalog
	Barcode string
	// RemoteProductID is the vendor-side product identifier
	RemoteProductID string
	// Title is the product title as listed on the vendor
	Title string
	// Price is the listed sale price; 0 when the cell did not parse
	Price decimal.Decimal
	// Stock is the listed stock quantity; 0 when the cell did not parse
	Stock int
}

// columnMapping names the header cells that carry each field on one platform
type columnMapping struct {
	barcode  []string
	remoteID []string
	title    []string
	price    []string
	stock    []string
}

// Header names as exported by each vendor's seller panel. Trendyol exports
// localized Turkish headers.
var platformColumns = map[marketplace.PlatformCode]columnMapping{
	marketplace.PlatformCodeTrendyol: {
		barcode:  []string{"barkod", "barcode"},
		remoteID: []string{"ürün kodu", "urun kodu", "model kodu", "product code"},
		title:    []string{"ürün adı", "urun adi", "product name"},
		price:    []string{"trendyol satış fiyatı", "satış fiyatı", "satis fiyati", "sale price"},
		stock:    []string{"stok", "stok adedi", "quantity"},
	},
	marketplace.PlatformCodeWooCommerce: {
		barcode:  []string{"sku", "barcode"},
		remoteID: []string{"id", "product id"},
		title:    []string{"name", "title"},
		price:    []string{"regular price", "price"},
		stock:    []string{"stock", "stock quantity"},
	},
}

// genericColumns is the best-effort fallback when no platform mapping applies
var genericColumns = columnMapping{
	barcode:  []string{"barkod", "barcode", "sku", "ean", "gtin"},
	remoteID: []string{"id", "remote id", "product id", "ürün kodu", "urun kodu", "code"},
	title:    []string{"name", "title", "ürün adı", "urun adi", "product name"},
	price:    []string{"price", "sale price", "fiyat", "satış fiyatı", "satis fiyati"},
	stock:    []string{"stock", "quantity", "stok", "adet"},
}

// Parser reads vendor export spreadsheets
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads an .xlsx export and returns the accepted rows. The platform
// hint is free text; it is resolved against the known platforms by
// case-insensitive substring and falls back to the generic column guesser
// when nothing matches. A row is accepted only when both its barcode and
// remote-id cells are non-empty after trimming. Price and stock cells that
// fail to parse default to 0 rather than rejecting the row.
func (p *Parser) Parse(fileBytes []byte, platformHint string) ([]ParsedRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyResult
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyResult
	}

	mapping := mappingForHint(platformHint)
	header := rows[0]
	idx := resolveColumns(header, mapping)
	if idx.barcode < 0 || idx.remoteID < 0 {
		// The platform mapping missed this file's layout; retry generically.
		idx = resolveColumns(header, genericColumns)
	}
	if idx.barcode < 0 || idx.remoteID < 0 {
		return nil, ErrEmptyResult
	}

	parsed := make([]ParsedRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		barcode := strings.TrimSpace(cell(row, idx.barcode))
		remoteID := strings.TrimSpace(cell(row, idx.remoteID))
		if barcode == "" || remoteID == "" {
			continue
		}
		parsed = append(parsed, ParsedRow{
			Barcode:         barcode,
			RemoteProductID: remoteID,
			Title:           strings.TrimSpace(cell(row, idx.title)),
			Price:           parsePrice(cell(row, idx.price)),
			Stock:           parseStock(cell(row, idx.stock)),
		})
	}

	if len(parsed) == 0 {
		return nil, ErrEmptyResult
	}
	return parsed, nil
}

func mappingForHint(hint string) columnMapping {
	if platform, ok := marketplace.ParsePlatformCode(hint); ok {
		if mapping, ok := platformColumns[platform]; ok {
			return mapping
		}
	}
	return genericColumns
}

// columnIndexes holds the resolved header positions; -1 means not found
type columnIndexes struct {
	barcode  int
	remoteID int
	title    int
	price    int
	stock    int
}

func resolveColumns(header []string, mapping columnMapping) columnIndexes {
	return columnIndexes{
		barcode:  findColumn(header, mapping.barcode),
		remoteID: findColumn(header, mapping.remoteID),
		title:    findColumn(header, mapping.title),
		price:    findColumn(header, mapping.price),
		stock:    findColumn(header, mapping.stock),
	}
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if normalized == name {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parsePrice(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	// Turkish exports use a decimal comma.
	raw = strings.ReplaceAll(raw, ",", ".")
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return price
}

func parseStock(raw string) int {
	stock, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return stock
}
