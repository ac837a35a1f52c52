// Package files reads the raw two-column series from disk.
//
// Two source formats are supported:
//
//   - delimited text (.csv, .txt and anything else), read with encoding/csv
//     using the configured delimiter, ';' by default
//   - Excel workbooks (.xlsx, .xlsm), read with excelize
//
// Columns are positional: the first column is the date, the second the
// value, whatever the header says. Extra columns are ignored and a row with
// a single column yields an empty value. Readers do no cleaning; they hand
// domain.RawRow values to dataprocessing.Load.
//
// Example usage:
//
//	reader := files.NewSourceReader(cfg.Source, logger)
//	rows, err := reader.Read(ctx, "data/rates.csv")
//	if errors.Is(err, files.ErrSourceNotFound) {
//	    // report and exit
//	}
package files
