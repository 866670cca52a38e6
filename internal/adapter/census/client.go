package census

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/gunviolence-data-service/internal/config"
	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
	"github.com/couchcryptid/gunviolence-data-service/internal/observability"
)

// Client implements domain.Geocoder using the US Census Bureau batch
// geocoding service.
type Client struct {
	httpClient   *http.Client
	url          string
	benchmark    string
	vintage      string
	returnType   string
	maxBatchRows int
	limiter      *rate.Limiter
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates a census batch geocoding client from the profile
// settings.
func NewClient(cfg config.GeocoderProfile, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		url:          cfg.URL,
		benchmark:    cfg.Benchmark,
		vintage:      cfg.Vintage,
		returnType:   cfg.ReturnType,
		maxBatchRows: cfg.MaxBatchRows,
		limiter:      rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		metrics:      metrics,
		logger:       logger,
	}
}

// GeocodeBatch submits the batch in chunks of at most maxBatchRows rows,
// the service's documented upload limit. Any chunk failure aborts the
// whole batch: the caller gets an error and no results, never a silently
// partial set.
func (c *Client) GeocodeBatch(ctx context.Context, batch []domain.AddressQuery) ([]domain.GeocodeResult, error) {
	if len(batch) == 0 {
		return []domain.GeocodeResult{}, nil
	}

	chunks := chunkQueries(batch, c.maxBatchRows)
	results := make([]domain.GeocodeResult, 0, len(batch))
	for i, chunk := range chunks {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("batch %d/%d: rate limit: %w", i+1, len(chunks), err)
		}

		start := time.Now()
		chunkResults, err := c.geocodeChunk(ctx, chunk)
		c.metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			c.metrics.GeocodeFailures.Inc()
			return nil, fmt.Errorf("batch %d/%d: %w", i+1, len(chunks), err)
		}

		c.metrics.GeocodeBatches.Inc()
		c.logger.Info("geocode batch complete",
			"batch", i+1,
			"batches", len(chunks),
			"rows", len(chunk),
			"matches", countMatches(chunkResults))
		results = append(results, chunkResults...)
	}
	return results, nil
}

func (c *Client) geocodeChunk(ctx context.Context, chunk []domain.AddressQuery) ([]domain.GeocodeResult, error) {
	body, contentType, err := encodeBatchRequest(chunk, c.benchmark, c.vintage, c.returnType)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("census API error: status %d: %s", resp.StatusCode, respBody)
	}

	return parseBatchResponse(resp.Body)
}

// chunkQueries splits batch into runs of at most size rows. A batch at
// exactly the limit stays one chunk.
func chunkQueries(batch []domain.AddressQuery, size int) [][]domain.AddressQuery {
	if size <= 0 || len(batch) <= size {
		return [][]domain.AddressQuery{batch}
	}
	chunks := make([][]domain.AddressQuery, 0, (len(batch)+size-1)/size)
	for start := 0; start < len(batch); start += size {
		end := min(start+size, len(batch))
		chunks = append(chunks, batch[start:end])
	}
	return chunks
}

// encodeBatchRequest builds the multipart form the batch endpoint expects:
// an addressFile part holding unheadered id,address,city,state,zip rows,
// plus the benchmark, vintage and returntype fields.
func encodeBatchRequest(chunk []domain.AddressQuery, benchmark, vintage, returnType string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("addressFile", "addresses.csv")
	if err != nil {
		return nil, "", err
	}
	cw := csv.NewWriter(fw)
	for _, q := range chunk {
		if err := cw.Write([]string{q.ID, q.Address, q.City, q.State, q.ZIP}); err != nil {
			return nil, "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, "", err
	}

	if err := mw.WriteField("benchmark", benchmark); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("vintage", vintage); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("returntype", returnType); err != nil {
		return nil, "", err
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// parseBatchResponse reads the unheadered response CSV. Expected columns:
// id, input address, matched address, match type, longitude, latitude,
// tiger line id, side. Unmatched rows come back with fewer columns and are
// skipped; the merge step treats a missing id as no match.
func parseBatchResponse(r io.Reader) ([]domain.GeocodeResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.GeocodeResult, 0, len(rows))
	for _, row := range rows {
		if len(row) < 8 {
			continue
		}
		results = append(results, domain.GeocodeResult{
			ID:        strings.TrimSpace(row[0]),
			MatchType: strings.TrimSpace(row[3]),
			Longitude: parseCoordinate(row[4]),
			Latitude:  parseCoordinate(row[5]),
		})
	}
	return results, nil
}

// parseCoordinate returns nil for blank or malformed cells so a bad
// coordinate reads as no match rather than 0,0.
func parseCoordinate(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func countMatches(results []domain.GeocodeResult) int {
	n := 0
	for _, res := range results {
		if res.Latitude != nil && res.Longitude != nil {
			n++
		}
	}
	return n
}
