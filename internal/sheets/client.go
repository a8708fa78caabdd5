// package sheets implements the backing store boundary over the Google Sheets
// API: a full-range read and a full-replace write of the playlist tab.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/opengrove/sheetset/internal/shared"
)

// Pacer sequences outgoing calls to the Sheets API. Every read and write waits
// for a slot before the request is issued.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Options configures a Client.
type Options struct {
	SpreadsheetID string
	Tab           string
	APIKey        string             // read credential; writes always need the token source
	TokenSource   oauth2.TokenSource // bearer credential for writes, usually the session
	Pacer         Pacer
	Timeout       time.Duration // per-request timeout, zero disables
	Logger        *log.Logger

	// Endpoint and HTTPClient override the API endpoint and transport, used by tests.
	Endpoint   string
	HTTPClient *http.Client
}

// Client reads and overwrites the two-column playlist range of one
// spreadsheet tab. Reads go through an API-key service; writes go through an
// OAuth-authorized service and are rejected locally when no token source is
// configured.
type Client struct {
	read          *gsheets.Service
	write         *gsheets.Service
	spreadsheetID string
	tab           string
	pacer         Pacer
	timeout       time.Duration
	logger        *log.Logger
}

// NewClient creates a Client for the configured spreadsheet tab.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id", shared.ErrInvalidConfig)
	}
	if opts.Tab == "" {
		return nil, fmt.Errorf("%w: spreadsheet tab", shared.ErrInvalidConfig)
	}

	readSrv, err := gsheets.NewService(ctx, serviceOptions(opts, false)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create read service: %w", err)
	}

	var writeSrv *gsheets.Service
	if opts.TokenSource != nil {
		writeSrv, err = gsheets.NewService(ctx, serviceOptions(opts, true)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create write service: %w", err)
		}
	}

	return &Client{
		read:          readSrv,
		write:         writeSrv,
		spreadsheetID: opts.SpreadsheetID,
		tab:           opts.Tab,
		pacer:         opts.Pacer,
		timeout:       opts.Timeout,
		logger:        opts.Logger,
	}, nil
}

// serviceOptions assembles client options for the read or write service.
// A test-supplied HTTP client replaces all credential options.
func serviceOptions(opts Options, write bool) []option.ClientOption {
	var co []option.ClientOption
	if opts.Endpoint != "" {
		co = append(co, option.WithEndpoint(opts.Endpoint))
	}

	if opts.HTTPClient != nil {
		return append(co, option.WithHTTPClient(opts.HTTPClient))
	}

	switch {
	case write:
		co = append(co, option.WithTokenSource(opts.TokenSource))
	case opts.APIKey != "":
		co = append(co, option.WithAPIKey(opts.APIKey))
	default:
		co = append(co, option.WithoutAuthentication())
	}
	return co
}

// valueRange returns the A1 range covering the two used columns of the tab.
func (c *Client) valueRange() string {
	return fmt.Sprintf("'%s'!A:B", c.tab)
}

// ReadRows fetches the full playlist range, header row included.
func (c *Client) ReadRows(ctx context.Context) ([][]string, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.read.Spreadsheets.Values.Get(c.spreadsheetID, c.valueRange()).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = cellString(cell)
		}
		rows = append(rows, row)
	}

	if c.logger != nil {
		c.logger.Debug("read playlist range", "rows", len(rows))
	}
	return rows, nil
}

// WriteRows overwrites the entire playlist range with the given rows.
//
// The Sheets values API cannot shrink a range in one request, so the
// full-replace write is realized as a clear of A:B followed by an update;
// both calls are paced. A failure between the two leaves the range empty
// until the next successful write, consistent with last-write-wins.
func (c *Client) WriteRows(ctx context.Context, rows [][]string) error {
	if c.write == nil {
		return fmt.Errorf("no write credential configured: %w", shared.ErrUnauthenticated)
	}

	if err := c.pace(ctx); err != nil {
		return err
	}

	clearCtx, cancelClear := c.withTimeout(ctx)
	defer cancelClear()
	_, err := c.write.Spreadsheets.Values.
		Clear(c.spreadsheetID, c.valueRange(), &gsheets.ClearValuesRequest{}).
		Context(clearCtx).Do()
	if err != nil {
		return mapAPIError(err)
	}

	if err := c.pace(ctx); err != nil {
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

	updateCtx, cancelUpdate := c.withTimeout(ctx)
	defer cancelUpdate()
	_, err = c.write.Spreadsheets.Values.
		Update(c.spreadsheetID, fmt.Sprintf("'%s'!A1", c.tab), &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(updateCtx).Do()
	if err != nil {
		return mapAPIError(err)
	}

	if c.logger != nil {
		c.logger.Debug("overwrote playlist range", "rows", len(rows))
	}
	return nil
}

func (c *Client) pace(ctx context.Context) error {
	if c.pacer == nil {
		return nil
	}
	if err := c.pacer.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrTransport, err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// cellString renders a sheet cell value as a string. The API decodes cells as
// JSON, so numeric cells arrive as float64.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// mapAPIError translates transport failures into the shared error kinds:
// 401 means the write credential was rejected, 403 and 429 mean permission or
// quota denial, anything else non-success is a transport failure.
func mapAPIError(err error) error {
	if errors.Is(err, shared.ErrUnauthenticated) || errors.Is(err, shared.ErrAuthExpired) {
		return err
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", shared.ErrAuthExpired, gerr.Message)
		case http.StatusForbidden, http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", shared.ErrAccessDenied, gerr.Message)
		default:
			return fmt.Errorf("%w: status %d: %s", shared.ErrTransport, gerr.Code, gerr.Message)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", shared.ErrTransport)
	}

	return fmt.Errorf("%w: %v", shared.ErrTransport, err)
}
