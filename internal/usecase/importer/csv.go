package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// ErrEmptyFile is returned when the input has no header row
var ErrEmptyFile = errors.New("csv has no header/rows")

const dateLayout = "2006-01-02"

// Expected columns: symbol,name,type,quantity,buyPrice[,purchaseDate]
const minColumns = 5

// HoldingCreator stores a new holding from a draft
type HoldingCreator interface {
	Create(ctx context.Context, draft domain.HoldingDraft) (*domain.Holding, error)
}

// CSVImporter creates holdings from a CSV file, one per well-formed row
type CSVImporter struct {
	creator HoldingCreator
	log     zerolog.Logger
}

// NewCSVImporter creates a new CSVImporter instance
func NewCSVImporter(creator HoldingCreator, log zerolog.Logger) *CSVImporter {
	return &CSVImporter{
		creator: creator,
		log:     log.With().Str("component", "csv_importer").Logger(),
	}
}

// Import reads r and creates a holding for every well-formed row.
// The first row is a header and is skipped. Malformed rows and rows
// rejected by validation are skipped silently; any other failure aborts
// the import, keeping the holdings already created.
func (i *CSVImporter) Import(ctx context.Context, r io.Reader) ([]*domain.Holding, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	created := make([]*domain.Holding, 0)
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return created, fmt.Errorf("failed to read csv: %w", err)
		}

		draft, ok := ParseRow(record)
		if !ok {
			skipped++
			continue
		}

		holding, err := i.creator.Create(ctx, draft)
		if err != nil {
			if domain.IsValidationError(err) {
				skipped++
				continue
			}
			return created, fmt.Errorf("failed to import %s: %w", draft.Symbol, err)
		}
		created = append(created, holding)
	}

	i.log.Info().Int("created", len(created)).Int("skipped", skipped).Msg("csv import finished")
	return created, nil
}

// ParseRow converts one CSV record into a draft. It reports false for rows
// with missing columns, empty required cells or unparseable values.
func ParseRow(cols []string) (domain.HoldingDraft, bool) {
	if len(cols) < minColumns {
		return domain.HoldingDraft{}, false
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	for _, c := range cols[:minColumns] {
		if c == "" {
			return domain.HoldingDraft{}, false
		}
	}

	assetType, err := domain.ParseAssetType(cols[2])
	if err != nil {
		return domain.HoldingDraft{}, false
	}
	quantity, err := decimal.NewFromString(cols[3])
	if err != nil {
		return domain.HoldingDraft{}, false
	}
	buyPrice, err := decimal.NewFromString(cols[4])
	if err != nil {
		return domain.HoldingDraft{}, false
	}

	draft := domain.HoldingDraft{
		Symbol:   cols[0],
		Name:     cols[1],
		Type:     assetType,
		Quantity: quantity,
		BuyPrice: buyPrice,
	}

	if len(cols) > minColumns && cols[5] != "" {
		date, err := time.Parse(dateLayout, cols[5])
		if err != nil {
			return domain.HoldingDraft{}, false
		}
		draft.PurchaseDate = &date
	}
	return draft, true
}
