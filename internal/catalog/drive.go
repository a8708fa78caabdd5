// package catalog lists song documents from a Drive folder and exports their
// text. Song ids are opaque document ids; the playlist subsystem never
// validates them against the catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/opengrove/sheetset/internal/shared"
)

const docMimeType = "application/vnd.google-apps.document"

// Song is one document in the catalog folder.
type Song struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Modified string `json:"modified"`
}

// Options configures a Client.
type Options struct {
	FolderID    string
	APIKey      string
	TokenSource oauth2.TokenSource
	Timeout     time.Duration
	Logger      *log.Logger

	// Endpoint and HTTPClient override the API endpoint and transport, used by tests.
	Endpoint   string
	HTTPClient *http.Client
}

// Client lists and exports song documents from one Drive folder.
type Client struct {
	srv      *drive.Service
	folderID string
	timeout  time.Duration
	logger   *log.Logger
}

// NewClient creates a catalog Client for the configured folder.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.FolderID == "" {
		return nil, fmt.Errorf("%w: catalog folder id", shared.ErrInvalidConfig)
	}

	var co []option.ClientOption
	if opts.Endpoint != "" {
		co = append(co, option.WithEndpoint(opts.Endpoint))
	}
	switch {
	case opts.HTTPClient != nil:
		co = append(co, option.WithHTTPClient(opts.HTTPClient))
	case opts.TokenSource != nil:
		co = append(co, option.WithTokenSource(opts.TokenSource))
	case opts.APIKey != "":
		co = append(co, option.WithAPIKey(opts.APIKey))
	default:
		co = append(co, option.WithoutAuthentication())
	}

	srv, err := drive.NewService(ctx, co...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Client{
		srv:      srv,
		folderID: opts.FolderID,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}, nil
}

// List returns all documents in the catalog folder, ordered by name.
func (c *Client) List(ctx context.Context) ([]Song, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var songs []Song
	pageToken := ""
	for {
		call := c.srv.Files.List().
			Q(fmt.Sprintf("'%s' in parents and trashed = false", c.folderID)).
			OrderBy("name").
			Fields("nextPageToken, files(id, name, mimeType, modifiedTime)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, mapDriveError(err)
		}

		for _, f := range resp.Files {
			songs = append(songs, Song{
				ID:       f.Id,
				Name:     f.Name,
				MimeType: f.MimeType,
				Modified: f.ModifiedTime,
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if c.logger != nil {
		c.logger.Debug("listed catalog folder", "songs", len(songs))
	}
	return songs, nil
}

// ExportText returns the plain-text content of a song document. Google Docs
// are exported; any other file is downloaded as-is.
func (c *Client) ExportText(ctx context.Context, songID string) (string, error) {
	if songID == "" {
		return "", fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	meta, err := c.srv.Files.Get(songID).Fields("id, mimeType").Context(ctx).Do()
	if err != nil {
		return "", mapDriveError(err)
	}

	var resp *http.Response
	if meta.MimeType == docMimeType {
		resp, err = c.srv.Files.Export(songID, "text/plain").Context(ctx).Download()
	} else {
		resp, err = c.srv.Files.Get(songID).Context(ctx).Download()
	}
	if err != nil {
		return "", mapDriveError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read export: %v", shared.ErrTransport, err)
	}

	// Docs exports open with a BOM.
	return strings.TrimPrefix(string(body), "\ufeff"), nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func mapDriveError(err error) error {
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
