// Package extract turns uploaded grade reports into a model.ReportTable.
//
// PDF reports are flattened to text and scanned for the fixed
// "SEAT NO.: ... SGPA : ..., TOTAL CREDITS EARNED : ..." pattern.
// CSV, delimited text and xlsx uploads are read as a header row plus data
// rows and mapped through a Schema of named columns.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"resultboard/internal/model"
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported file type")
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrMissingColumn      = errors.New("missing required column")
)

type Format string

const (
	PDF  Format = "pdf"
	CSV  Format = "csv"
	TXT  Format = "txt"
	XLSX Format = "xlsx"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return PDF, nil
	case ".csv":
		return CSV, nil
	case ".txt":
		return TXT, nil
	case ".xlsx":
		return XLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileName)
}

// Extract runs the extractor matching format over data.
func Extract(format Format, data []byte) (model.ReportTable, error) {
	switch format {
	case PDF:
		text, err := PDFText(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return model.ReportTable{}, err
		}
		return model.ReportTable{Records: ExtractRecords(text)}, nil
	case CSV, TXT, XLSX:
		header, rows, err := ReadTable(format, bytes.NewReader(data))
		if err != nil {
			return model.ReportTable{}, err
		}
		return DefaultSchema.Table(header, rows)
	}
	return model.ReportTable{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
