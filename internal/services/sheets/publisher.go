// Package sheets renders reconciled sourcing rows into a Google Sheets
// spreadsheet: appended after existing content, with merged presentation
// cells per row group, currency formats, and per-row profit formulas.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"sourcer/internal/config"
	"sourcer/internal/logger"
	"sourcer/internal/models"
)

// Header is the destination's column layout. Existing sheets with a
// different first row are rewritten to match.
var Header = []string{"id", "photo", "moq", "price 1688", "price cust", "profit", "info", "material", "link"}

const (
	colID = iota
	colPhoto
	colMoq
	colUnitPrice
	colCustPrice
	colProfit
	colInfo
	colMaterial
	colLink
	colCount
)

// mergeColumns are merged vertically within each row group.
var mergeColumns = []int64{colID, colPhoto, colMoq, colMaterial, colLink}

// Visual height of one merged block in pixels; individual rows share it.
// The API applies roughly double the requested size, hence the halving when
// the request is built.
const blockTargetHeight = 400

const currencyPattern = "¥#,##0.00"

type Publisher struct {
	svc           *sheetsv4.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
	logger        *logger.Logger
}

func NewPublisher(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Publisher, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is not set")
	}

	spreadsheetID, err := ParseSpreadsheetID(cfg.SheetID)
	if err != nil {
		return nil, err
	}

	svc, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	p := &Publisher{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
	}

	if err := p.resolveSheetID(ctx); err != nil {
		return nil, err
	}
	if err := p.ensureHeader(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

// ParseSpreadsheetID accepts either a bare spreadsheet id or a full
// docs.google.com URL and returns the id.
func ParseSpreadsheetID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("GOOGLE_SHEET_ID is not set")
	}
	marker := "/spreadsheets/d/"
	if idx := strings.Index(raw, marker); idx >= 0 {
		rest := raw[idx+len(marker):]
		if end := strings.IndexByte(rest, '/'); end >= 0 {
			rest = rest[:end]
		}
		if rest == "" {
			return "", fmt.Errorf("could not parse spreadsheet id from URL: %s", raw)
		}
		return rest, nil
	}
	return raw, nil
}

func (p *Publisher) resolveSheetID(ctx context.Context) error {
	meta, err := p.svc.Spreadsheets.Get(p.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch spreadsheet metadata: %w", err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == p.sheetName {
			p.sheetID = sheet.Properties.SheetId
			return nil
		}
	}
	return fmt.Errorf("sheet %q not found in spreadsheet %s", p.sheetName, p.spreadsheetID)
}

// ensureHeader makes row 1 match Header: bold, centered, frozen, with fixed
// widths for the id, photo, info, material and link columns.
func (p *Publisher) ensureHeader(ctx context.Context) error {
	rangeRef := fmt.Sprintf("%s!1:1", p.sheetName)
	result, err := p.svc.Spreadsheets.Values.Get(p.spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if headerMatches(result.Values, Header) {
		p.logger.Debug("Header already correct in %q", p.sheetName)
		return nil
	}

	headerCells := make([]*sheetsv4.CellData, len(Header))
	for i, title := range Header {
		title := title
		headerCells[i] = &sheetsv4.CellData{
			UserEnteredValue: &sheetsv4.ExtendedValue{StringValue: &title},
			UserEnteredFormat: &sheetsv4.CellFormat{
				TextFormat:          &sheetsv4.TextFormat{Bold: true},
				HorizontalAlignment: "CENTER",
			},
		}
	}

	requests := []*sheetsv4.Request{
		{
			UpdateCells: &sheetsv4.UpdateCellsRequest{
				Rows:   []*sheetsv4.RowData{{Values: headerCells}},
				Fields: "userEnteredValue,userEnteredFormat(textFormat,horizontalAlignment)",
				Range: &sheetsv4.GridRange{
					SheetId:          p.sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(Header)),
				},
			},
		},
		{
			UpdateSheetProperties: &sheetsv4.UpdateSheetPropertiesRequest{
				Properties: &sheetsv4.SheetProperties{
					SheetId:        p.sheetID,
					GridProperties: &sheetsv4.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		p.columnWidthRequest(colID, 200),
		p.columnWidthRequest(colPhoto, 200),
		p.columnWidthRequest(colInfo, 150),
		p.columnWidthRequest(colMaterial, 150),
		p.columnWidthRequest(colLink, 400),
	}

	if err := p.batchUpdate(ctx, requests); err != nil {
		return fmt.Errorf("failed to set up header: %w", err)
	}
	p.logger.Info("Header row in %q frozen and formatted", p.sheetName)
	return nil
}

// ListIdentifiers returns the contents of the identifier column below the
// header, used to continue the row-id sequence across runs.
func (p *Publisher) ListIdentifiers(ctx context.Context) ([]string, error) {
	rangeRef := fmt.Sprintf("%s!A2:A", p.sheetName)
	result, err := p.svc.Spreadsheets.Values.Get(p.spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read identifier column: %w", err)
	}

	ids := make([]string, 0, len(result.Values))
	for _, row := range result.Values {
		if len(row) == 0 {
			continue
		}
		if s, ok := row[0].(string); ok && strings.TrimSpace(s) != "" {
			ids = append(ids, strings.TrimSpace(s))
		}
	}
	return ids, nil
}

// Publish appends the rows after any existing content and applies the
// presentational pass: group merges, block row heights, alignment, currency
// formats, profit formulas and wrapping.
func (p *Publisher) Publish(ctx context.Context, rows []models.OutputRow, groups []models.RowGroup) error {
	if len(rows) == 0 {
		return nil
	}

	body := &sheetsv4.ValueRange{Values: buildValues(rows, groups)}
	appendCall := p.svc.Spreadsheets.Values.Append(p.spreadsheetID, fmt.Sprintf("%s!A2", p.sheetName), body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		IncludeValuesInResponse(false)

	result, err := appendCall.Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}
	p.logger.Info("Appended %d rows to %q", len(rows), p.sheetName)

	if result.Updates == nil {
		return fmt.Errorf("append response carried no update range")
	}
	startRow, err := parseRangeStartRow(result.Updates.UpdatedRange)
	if err != nil {
		return err
	}
	startIndex := int64(startRow - 1) // 0-indexed first data row

	var requests []*sheetsv4.Request
	requests = append(requests, p.mergeRequests(startIndex, groups)...)
	requests = append(requests, p.rowHeightRequests(startIndex, groups)...)
	requests = append(requests, p.formatRequests(startIndex, int64(len(rows)))...)

	if err := p.batchUpdate(ctx, requests); err != nil {
		return fmt.Errorf("failed to format appended rows: %w", err)
	}
	return nil
}

func (p *Publisher) mergeRequests(startIndex int64, groups []models.RowGroup) []*sheetsv4.Request {
	var requests []*sheetsv4.Request
	for _, g := range groups {
		if g.Count <= 1 {
			continue
		}
		for _, col := range mergeColumns {
			requests = append(requests, &sheetsv4.Request{
				MergeCells: &sheetsv4.MergeCellsRequest{
					Range: &sheetsv4.GridRange{
						SheetId:          p.sheetID,
						StartRowIndex:    startIndex + int64(g.StartIndex),
						EndRowIndex:      startIndex + int64(g.StartIndex+g.Count),
						StartColumnIndex: col,
						EndColumnIndex:   col + 1,
					},
					MergeType: "MERGE_ALL",
				},
			})
		}
	}
	return requests
}

func (p *Publisher) rowHeightRequests(startIndex int64, groups []models.RowGroup) []*sheetsv4.Request {
	var requests []*sheetsv4.Request
	for _, g := range groups {
		if g.Count <= 0 {
			continue
		}
		perRow := blockTargetHeight / g.Count
		if perRow < 1 {
			perRow = 1
		}
		// Renderer applies roughly twice the requested pixel size.
		pixelSize := perRow / 2
		if pixelSize < 1 {
			pixelSize = 1
		}
		requests = append(requests, &sheetsv4.Request{
			UpdateDimensionProperties: &sheetsv4.UpdateDimensionPropertiesRequest{
				Range: &sheetsv4.DimensionRange{
					SheetId:    p.sheetID,
					Dimension:  "ROWS",
					StartIndex: startIndex + int64(g.StartIndex),
					EndIndex:   startIndex + int64(g.StartIndex+g.Count),
				},
				Properties: &sheetsv4.DimensionProperties{PixelSize: int64(pixelSize)},
				Fields:     "pixelSize",
			},
		})
	}
	return requests
}

func (p *Publisher) formatRequests(startIndex, rowCount int64) []*sheetsv4.Request {
	dataRange := func(startCol, endCol int64) *sheetsv4.GridRange {
		return &sheetsv4.GridRange{
			SheetId:          p.sheetID,
			StartRowIndex:    startIndex,
			EndRowIndex:      startIndex + rowCount,
			StartColumnIndex: startCol,
			EndColumnIndex:   endCol,
		}
	}

	requests := []*sheetsv4.Request{
		// Data rows are never bold, whatever formatting they inherited.
		{
			RepeatCell: &sheetsv4.RepeatCellRequest{
				Range: dataRange(0, colCount),
				Cell: &sheetsv4.CellData{
					UserEnteredFormat: &sheetsv4.CellFormat{
						TextFormat: &sheetsv4.TextFormat{
							Bold:            false,
							ForceSendFields: []string{"Bold"},
						},
					},
				},
				Fields: "userEnteredFormat.textFormat.bold",
			},
		},
		{
			RepeatCell: &sheetsv4.RepeatCellRequest{
				Range: dataRange(0, colCount),
				Cell: &sheetsv4.CellData{
					UserEnteredFormat: &sheetsv4.CellFormat{
						HorizontalAlignment: "CENTER",
						VerticalAlignment:   "MIDDLE",
					},
				},
				Fields: "userEnteredFormat(horizontalAlignment,verticalAlignment)",
			},
		},
		{
			RepeatCell: &sheetsv4.RepeatCellRequest{
				Range: dataRange(colUnitPrice, colCustPrice+1),
				Cell: &sheetsv4.CellData{
					UserEnteredFormat: &sheetsv4.CellFormat{
						NumberFormat: &sheetsv4.NumberFormat{Type: "CURRENCY", Pattern: currencyPattern},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			RepeatCell: &sheetsv4.RepeatCellRequest{
				Range: dataRange(colInfo, colLink+1),
				Cell: &sheetsv4.CellData{
					UserEnteredFormat: &sheetsv4.CellFormat{WrapStrategy: "WRAP"},
				},
				Fields: "userEnteredFormat.wrapStrategy",
			},
		},
	}

	// Profit is a formula so a later manual price edit recalculates it.
	for i := int64(0); i < rowCount; i++ {
		sheetRow := startIndex + i + 1 // 1-indexed for A1 references
		formula := fmt.Sprintf(`=IF(AND(ISNUMBER(D%d), ISNUMBER(E%d)), E%d-D%d, "")`, sheetRow, sheetRow, sheetRow, sheetRow)
		requests = append(requests, &sheetsv4.Request{
			UpdateCells: &sheetsv4.UpdateCellsRequest{
				Rows: []*sheetsv4.RowData{{
					Values: []*sheetsv4.CellData{{
						UserEnteredValue: &sheetsv4.ExtendedValue{FormulaValue: &formula},
					}},
				}},
				Fields: "userEnteredValue",
				Range: &sheetsv4.GridRange{
					SheetId:          p.sheetID,
					StartRowIndex:    startIndex + i,
					EndRowIndex:      startIndex + i + 1,
					StartColumnIndex: colProfit,
					EndColumnIndex:   colProfit + 1,
				},
			},
		})
	}

	return requests
}

func (p *Publisher) columnWidthRequest(col int64, pixels int64) *sheetsv4.Request {
	return &sheetsv4.Request{
		UpdateDimensionProperties: &sheetsv4.UpdateDimensionPropertiesRequest{
			Range: &sheetsv4.DimensionRange{
				SheetId:    p.sheetID,
				Dimension:  "COLUMNS",
				StartIndex: col,
				EndIndex:   col + 1,
			},
			Properties: &sheetsv4.DimensionProperties{PixelSize: pixels},
			Fields:     "pixelSize",
		},
	}
}

func (p *Publisher) batchUpdate(ctx context.Context, requests []*sheetsv4.Request) error {
	if len(requests) == 0 {
		return nil
	}
	_, err := p.svc.Spreadsheets.BatchUpdate(p.spreadsheetID, &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
