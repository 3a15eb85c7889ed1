package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"leyning_exporter/internal/domain/spreadsheet"
	"leyning_exporter/internal/infra/logger"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const (
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
	newSheetRows        = 1000
	newSheetCols        = 26
)

// Client is the Google Sheets implementation of spreadsheet.Sink. A fixed
// delay after every write and format call keeps the run under the API's
// per-minute quota.
type Client struct {
	sheets     *sheetsapi.Service
	drive      *drive.Service
	writeDelay time.Duration

	spreadsheetID string
	url           string
	titles        map[int64]string
}

// NewClient authenticates with the service-account credentials file and
// builds Sheets and Drive services over the same authorized HTTP client.
func NewClient(ctx context.Context, credentialsFile string, writeDelay time.Duration) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("error reading credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("error parsing service account credentials: %w", err)
	}
	httpClient := jwtConfig.Client(ctx)

	sheetsSvc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("error creating sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("error creating drive service: %w", err)
	}

	return &Client{
		sheets:     sheetsSvc,
		drive:      driveSvc,
		writeDelay: writeDelay,
		titles:     make(map[int64]string),
	}, nil
}

// URL returns the target spreadsheet's URL. Valid after EnsureSpreadsheet.
func (c *Client) URL() string {
	return c.url
}

// EnsureSpreadsheet opens the named spreadsheet via a Drive name search,
// creating a new one when no match exists, and returns its URL.
func (c *Client) EnsureSpreadsheet(ctx context.Context, title string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(title, "'", `\'`), spreadsheetMimeType)
	list, err := c.drive.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", c.wrapErr("searching for spreadsheet", err)
	}

	if len(list.Files) > 0 {
		c.spreadsheetID = list.Files[0].Id
		c.url = "https://docs.google.com/spreadsheets/d/" + c.spreadsheetID
		logger.Log.Debugf("Found existing spreadsheet %q (%s)", title, c.spreadsheetID)
	} else {
		created, err := c.sheets.Spreadsheets.Create(&sheetsapi.Spreadsheet{
			Properties: &sheetsapi.SpreadsheetProperties{Title: title},
		}).Context(ctx).Do()
		if err != nil {
			return "", c.wrapErr("creating spreadsheet", err)
		}
		c.spreadsheetID = created.SpreadsheetId
		c.url = created.SpreadsheetUrl
		logger.Log.Debugf("Created new spreadsheet %q (%s)", title, c.spreadsheetID)
	}

	if _, err := c.refreshSheets(ctx); err != nil {
		return "", err
	}
	return c.url, nil
}

// Share grants write access to the given email address and enables
// anyone-with-the-link write access.
func (c *Client) Share(ctx context.Context, email string) error {
	_, err := c.drive.Permissions.Create(c.spreadsheetID, &drive.Permission{
		Type: "anyone",
		Role: "writer",
	}).Context(ctx).Do()
	if err != nil {
		return c.wrapErr("enabling link sharing", err)
	}

	if email != "" {
		_, err = c.drive.Permissions.Create(c.spreadsheetID, &drive.Permission{
			Type:         "user",
			Role:         "writer",
			EmailAddress: email,
		}).Context(ctx).Do()
		if err != nil {
			return c.wrapErr("sharing with "+email, err)
		}
		logger.Log.Debugf("Shared spreadsheet with %s", email)
	}
	c.pause()
	return nil
}

func (c *Client) Sheets(ctx context.Context) ([]spreadsheet.Sheet, error) {
	return c.refreshSheets(ctx)
}

func (c *Client) CreateSheet(ctx context.Context, title string) (int64, error) {
	resp, err := c.batchUpdate(ctx, []*sheetsapi.Request{{
		AddSheet: &sheetsapi.AddSheetRequest{
			Properties: &sheetsapi.SheetProperties{
				Title: title,
				GridProperties: &sheetsapi.GridProperties{
					RowCount:    newSheetRows,
					ColumnCount: newSheetCols,
				},
			},
		},
	}})
	if err != nil {
		return 0, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("%w: add sheet returned no properties", spreadsheet.ErrSinkUnavailable)
	}
	id := resp.Replies[0].AddSheet.Properties.SheetId
	c.titles[id] = title
	return id, nil
}

func (c *Client) DeleteSheet(ctx context.Context, sheetID int64) error {
	_, err := c.batchUpdate(ctx, []*sheetsapi.Request{{
		DeleteSheet: &sheetsapi.DeleteSheetRequest{SheetId: sheetID},
	}})
	if err != nil {
		return err
	}
	delete(c.titles, sheetID)
	return nil
}

func (c *Client) RenameSheet(ctx context.Context, sheetID int64, title string) error {
	_, err := c.batchUpdate(ctx, []*sheetsapi.Request{{
		UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
			Properties: &sheetsapi.SheetProperties{SheetId: sheetID, Title: title},
			Fields:     "title",
		},
	}})
	if err != nil {
		return err
	}
	c.titles[sheetID] = title
	return nil
}

func (c *Client) ReorderSheets(ctx context.Context, order []int64) error {
	reqs := make([]*sheetsapi.Request, 0, len(order))
	for i, id := range order {
		reqs = append(reqs, &sheetsapi.Request{
			UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
				Properties: &sheetsapi.SheetProperties{SheetId: id, Index: int64(i)},
				Fields:     "index",
			},
		})
	}
	_, err := c.batchUpdate(ctx, reqs)
	return err
}

func (c *Client) ClearSheet(ctx context.Context, sheetID int64) error {
	title, err := c.titleFor(sheetID)
	if err != nil {
		return err
	}
	_, err = c.sheets.Spreadsheets.Values.Clear(c.spreadsheetID, quoteTitle(title), &sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return c.wrapErr("clearing sheet "+title, err)
	}
	c.pause()
	return nil
}

// WriteRange writes rows into a sheet-local A1 range. Values go through
// USER_ENTERED so the occasional formula cell is interpreted, matching manual
// entry.
func (c *Client) WriteRange(ctx context.Context, sheetID int64, rangeRef string, rows [][]string) error {
	title, err := c.titleFor(sheetID)
	if err != nil {
		return err
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err = c.sheets.Spreadsheets.Values.
		Update(c.spreadsheetID, quoteTitle(title)+"!"+rangeRef, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return c.wrapErr("writing range "+rangeRef, err)
	}
	c.pause()
	return nil
}

func (c *Client) FormatRange(ctx context.Context, sheetID int64, rangeRef string, style spreadsheet.CellStyle) error {
	bounds, err := parseA1(rangeRef)
	if err != nil {
		return fmt.Errorf("%w: %v", spreadsheet.ErrSinkUnavailable, err)
	}
	format, fields := cellFormat(style)
	if fields == "" {
		return nil
	}

	_, err = c.batchUpdate(ctx, []*sheetsapi.Request{{
		RepeatCell: &sheetsapi.RepeatCellRequest{
			Range: &sheetsapi.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    bounds.StartRow,
				EndRowIndex:      bounds.EndRow,
				StartColumnIndex: bounds.StartCol,
				EndColumnIndex:   bounds.EndCol,
			},
			Cell:   &sheetsapi.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}})
	return err
}

func (c *Client) SetColumnWidths(ctx context.Context, sheetID int64, widths []int64) error {
	reqs := make([]*sheetsapi.Request, 0, len(widths))
	for i, width := range widths {
		reqs = append(reqs, &sheetsapi.Request{
			UpdateDimensionProperties: &sheetsapi.UpdateDimensionPropertiesRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: int64(i),
					EndIndex:   int64(i) + 1,
				},
				Properties: &sheetsapi.DimensionProperties{PixelSize: width},
				Fields:     "pixelSize",
			},
		})
	}
	_, err := c.batchUpdate(ctx, reqs)
	return err
}

func (c *Client) refreshSheets(ctx context.Context) ([]spreadsheet.Sheet, error) {
	ss, err := c.sheets.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets(properties(sheetId,title,index))").
		Context(ctx).Do()
	if err != nil {
		return nil, c.wrapErr("listing sheets", err)
	}

	list := make([]spreadsheet.Sheet, 0, len(ss.Sheets))
	c.titles = make(map[int64]string, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		list = append(list, spreadsheet.Sheet{ID: sh.Properties.SheetId, Title: sh.Properties.Title})
		c.titles[sh.Properties.SheetId] = sh.Properties.Title
	}
	return list, nil
}

func (c *Client) batchUpdate(ctx context.Context, reqs []*sheetsapi.Request) (*sheetsapi.BatchUpdateSpreadsheetResponse, error) {
	resp, err := c.sheets.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return nil, c.wrapErr("batch update", err)
	}
	c.pause()
	return resp, nil
}

func (c *Client) titleFor(sheetID int64) (string, error) {
	title, ok := c.titles[sheetID]
	if !ok {
		return "", fmt.Errorf("%w: unknown sheet id %d", spreadsheet.ErrSinkUnavailable, sheetID)
	}
	return title, nil
}

// wrapErr classifies a backend error: title collisions map to
// ErrSheetConflict so the orchestrator can recover, everything else to
// ErrSinkUnavailable.
func (c *Client) wrapErr(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "already exists") {
		return fmt.Errorf("%w: %s", spreadsheet.ErrSheetConflict, apiErr.Message)
	}
	return fmt.Errorf("%w: error %s: %v", spreadsheet.ErrSinkUnavailable, op, err)
}

func (c *Client) pause() {
	if c.writeDelay > 0 {
		time.Sleep(c.writeDelay)
	}
}

// cellFormat converts a CellStyle to the API's CellFormat plus the exact
// field mask for the set fields, so formats compose instead of clobbering
// each other.
func cellFormat(style spreadsheet.CellStyle) (*sheetsapi.CellFormat, string) {
	format := &sheetsapi.CellFormat{}
	var fields []string

	if style.Background != nil {
		format.BackgroundColor = &sheetsapi.Color{
			Red:   style.Background.Red,
			Green: style.Background.Green,
			Blue:  style.Background.Blue,
		}
		fields = append(fields, "userEnteredFormat.backgroundColor")
	}

	text := &sheetsapi.TextFormat{}
	textSet := false
	if style.Bold {
		text.Bold = true
		textSet = true
		fields = append(fields, "userEnteredFormat.textFormat.bold")
	}
	if style.FontSize > 0 {
		text.FontSize = style.FontSize
		textSet = true
		fields = append(fields, "userEnteredFormat.textFormat.fontSize")
	}
	if style.FontFamily != "" {
		text.FontFamily = style.FontFamily
		textSet = true
		fields = append(fields, "userEnteredFormat.textFormat.fontFamily")
	}
	if textSet {
		format.TextFormat = text
	}

	if style.Center {
		format.HorizontalAlignment = "CENTER"
		fields = append(fields, "userEnteredFormat.horizontalAlignment")
	}
	if style.Overflow {
		format.WrapStrategy = "OVERFLOW_CELL"
		fields = append(fields, "userEnteredFormat.wrapStrategy")
	}

	return format, strings.Join(fields, ",")
}

// quoteTitle wraps a sheet title for use in an A1 range reference.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
