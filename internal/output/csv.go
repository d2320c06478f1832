package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"hftsim/internal/common"

	"github.com/rs/zerolog/log"
)

var csvHeader = []string{"timestamp", "buy_order_id", "sell_order_id", "price", "quantity"}

// CSVWriter writes the trade tape to a CSV file, one trade per line.
type CSVWriter struct {
	Path string
}

func (w *CSVWriter) Name() string { return "csv" }

func (w *CSVWriter) Write(_ context.Context, trades []common.Trade) error {
	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return fmt.Errorf("unable to create directory: %w", err)
	}

	f, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", w.Path, err)
	}

	if err := WriteCSV(f, trades); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close %s: %w", w.Path, err)
	}

	log.Info().Str("path", w.Path).Int("trades", len(trades)).Msg("trades written")
	return nil
}

// WriteCSV writes a header line followed by one line per trade. Prices carry
// two decimals and quantities four.
func WriteCSV(w io.Writer, trades []common.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("unable to write header: %w", err)
	}

	for _, t := range trades {
		record := []string{
			t.Timestamp.UTC().Format(time.RFC3339Nano),
			t.BuyOrderUUID,
			t.SellOrderUUID,
			strconv.FormatFloat(t.Price, 'f', 2, 64),
			strconv.FormatFloat(t.Quantity, 'f', 4, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("unable to write trade: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
