package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.smartsheet.com/2.0"

// DefaultTimeout bounds each HTTP request when no client is supplied.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string

	// Token is the bearer access token.
	Token string

	// HTTPClient is used for requests. If nil, a client with DefaultTimeout is used.
	HTTPClient *http.Client

	// Logger receives debug request logs. If nil, logging is disabled.
	Logger *zap.Logger
}

// Client calls the Smartsheet REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
}

// NewClient creates a client from opts.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		token:   opts.Token,
		client:  httpClient,
		log:     logger.Named("sheet"),
	}
}

type listSheetsResponse struct {
	Data []SheetSummary `json:"data"`
}

type resultResponse[T any] struct {
	Message    string `json:"message"`
	ResultCode int    `json:"resultCode"`
	Result     T      `json:"result"`
}

// ListSheets returns every sheet the token can see.
func (c *Client) ListSheets(ctx context.Context) ([]SheetSummary, error) {
	var response listSheetsResponse
	if err := c.do(ctx, http.MethodGet, "/sheets?includeAll=true", nil, &response); err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	return response.Data, nil
}

// GetSheet fetches a sheet with all of its columns and rows.
func (c *Client) GetSheet(ctx context.Context, sheetID int64) (*Sheet, error) {
	var sheet Sheet
	if err := c.do(ctx, http.MethodGet, sheetPath(sheetID), nil, &sheet); err != nil {
		return nil, fmt.Errorf("get sheet %d: %w", sheetID, err)
	}
	return &sheet, nil
}

type createSheetRequest struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// CreateSheetInFolder creates an empty sheet with the given columns.
func (c *Client) CreateSheetInFolder(ctx context.Context, folderID int64, name string, columns []Column) (*Sheet, error) {
	var response resultResponse[Sheet]
	path := "/folders/" + strconv.FormatInt(folderID, 10) + "/sheets"
	if err := c.do(ctx, http.MethodPost, path, createSheetRequest{Name: name, Columns: columns}, &response); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	return &response.Result, nil
}

// AddRows appends rows to a sheet and returns them as stored, with their
// assigned IDs and system column values.
func (c *Client) AddRows(ctx context.Context, sheetID int64, rows []Row) ([]Row, error) {
	var response resultResponse[[]Row]
	if err := c.do(ctx, http.MethodPost, sheetPath(sheetID)+"/rows", rows, &response); err != nil {
		return nil, fmt.Errorf("add rows: %w", err)
	}
	return response.Result, nil
}

// UpdateRows updates cells on existing rows.
func (c *Client) UpdateRows(ctx context.Context, sheetID int64, rows []Row) error {
	var response resultResponse[[]Row]
	if err := c.do(ctx, http.MethodPut, sheetPath(sheetID)+"/rows", rows, &response); err != nil {
		return fmt.Errorf("update rows: %w", err)
	}
	return nil
}

// DeleteRows removes rows by ID.
func (c *Client) DeleteRows(ctx context.Context, sheetID int64, rowIDs []int64) error {
	if len(rowIDs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rowIDs))
	for _, id := range rowIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	query := url.Values{"ids": []string{strings.Join(ids, ",")}}
	var response resultResponse[[]int64]
	if err := c.do(ctx, http.MethodDelete, sheetPath(sheetID)+"/rows?"+query.Encode(), nil, &response); err != nil {
		return fmt.Errorf("delete rows: %w", err)
	}
	return nil
}

func sheetPath(sheetID int64) string {
	return "/sheets/" + strconv.FormatInt(sheetID, 10)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, dest any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(apiErr); err != nil {
		apiErr.Message = ""
	}
	return apiErr
}
