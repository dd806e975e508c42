package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"royalwood-storefront/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductWriter interface {
	UpsertProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads product rows with the columns name, price, description
// and imageUrl, and upserts them by name.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	logger      *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		logger:      logger,
	}
}

// Run imports every row and returns how many products were written. Blank
// rows are skipped; an invalid row stops the import.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing required column \"name\"")
	}
	if _, ok := index["price"]; !ok {
		return 0, errors.New("missing required column \"price\"")
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}

		p, skip, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if skip {
			continue
		}
		if _, err := i.productRepo.UpsertProduct(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
		i.logger.Debug("importer: product upserted", zap.String("name", p.Name), zap.Int("row", line))
	}

	i.logger.Info("importer: done", zap.Int("imported", imported))
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, bool, error) {
	name := pick(record, index, "name")
	rawPrice := pick(record, index, "price")
	desc := pick(record, index, "description")
	imageURL := pick(record, index, "imageUrl")

	if name == "" && rawPrice == "" && desc == "" && imageURL == "" {
		return domain.Product{}, true, nil
	}
	if name == "" {
		return domain.Product{}, false, &domain.ValidationError{Field: "name", Message: "required"}
	}
	price, err := parsePrice(rawPrice)
	if err != nil {
		return domain.Product{}, false, &domain.ValidationError{Field: "price", Message: fmt.Sprintf("invalid price %q", rawPrice), Err: err}
	}
	return domain.Product{
		Name:        name,
		Price:       price,
		Description: desc,
		ImageURL:    imageURL,
	}, false, nil
}

// parsePrice accepts plain numbers as well as "₹1,299.00".
func parsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("₹", "", ",", "", " ", "").Replace(raw)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("negative price")
	}
	return d, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
