package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/repository/memory"

	"github.com/shopspring/decimal"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

func (s *stubProductRepo) UpsertProduct(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := "\ufeffname,price,description,imageUrl\n" +
		"Teak Chair,4500,Solid teak dining chair,https://example.com/chair.jpg\n" +
		",,,\n" +
		"\"Rosewood Table\",\"₹12,999.50\",\"Six seater, hand polished\",\n"

	repo := &stubProductRepo{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 || len(repo.items) != 2 {
		t.Fatalf("expected 2 products imported, got count=%d saved=%d", count, len(repo.items))
	}
	if repo.items[0].Name != "Teak Chair" || !repo.items[0].Price.Equal(decimal.NewFromInt(4500)) || repo.items[0].ImageURL != "https://example.com/chair.jpg" {
		t.Fatalf("unexpected first product: %+v", repo.items[0])
	}
	if !repo.items[1].Price.Equal(decimal.RequireFromString("12999.5")) || repo.items[1].Description != "Six seater, hand polished" {
		t.Fatalf("unexpected second product: %+v", repo.items[1])
	}
}

func TestCSVImporter_InvalidRows(t *testing.T) {
	tests := map[string]string{
		"missing name":    "name,price\n,100\n",
		"bad price":       "name,price\nChair,cheap\n",
		"negative price":  "name,price\nChair,-1\n",
		"missing columns": "title,cost\nChair,100\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewCSVImporter(strings.NewReader(data), &stubProductRepo{}, nil).Run(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestCSVImporter_RepoError(t *testing.T) {
	repo := &stubProductRepo{err: errors.New("db down")}
	n, err := NewCSVImporter(strings.NewReader("name,price\nChair,10\n"), repo, nil).Run(context.Background())
	if err == nil || n != 0 {
		t.Fatalf("expected failure with 0 imported, got n=%d err=%v", n, err)
	}
}

func TestCSVImporter_IdempotentByName(t *testing.T) {
	store := memory.New()
	data := "name,price\nChair,10\n"
	for i := 0; i < 2; i++ {
		if _, err := NewCSVImporter(strings.NewReader(data), store, nil).Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	n, _ := store.Count(context.Background(), domain.KindProducts)
	if n != 1 {
		t.Fatalf("expected 1 product after re-import, got %d", n)
	}
}
