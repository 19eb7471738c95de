package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/lifelens/lifelens-insights/internal/cache"
	"github.com/lifelens/lifelens-insights/internal/utils"
)

// DomainRecord is one raw user entry owned by the external store. The
// engine treats it as read-only.
type DomainRecord struct {
	Domain     string
	CreatedAt  time.Time
	Attributes map[string]Value
}

// RecordStoreClient wraps the hosted datastore's query API for domain
// records.
type RecordStoreClient struct {
	baseURL     string
	recordsPath string
	httpClient  *http.Client
	cache       cache.Provider
	recordsTTL  time.Duration
}

// NewRecordStoreClient constructs a client targeting the configured
// record store. A nil cacheProvider disables read-through caching.
func NewRecordStoreClient(baseURL, recordsPath string, timeout time.Duration, cacheProvider cache.Provider, recordsTTL time.Duration) *RecordStoreClient {
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RecordStoreClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		recordsPath: recordsPath,
		httpClient:  &http.Client{Timeout: timeout},
		cache:       cacheProvider,
		recordsTTL:  recordsTTL,
	}
}

type wireRecord struct {
	Domain    string           `json:"domain"`
	CreatedAt time.Time        `json:"created_at"`
	Metadata  map[string]Value `json:"metadata"`
}

// FetchDomainRecords returns all of a user's records created on or after
// since. An empty result is not an error; the analysis degrades to a
// "no data" response upstream.
func (c *RecordStoreClient) FetchDomainRecords(ctx context.Context, userID string, since time.Time) ([]DomainRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("record store client not initialised")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("record store base URL not configured")
	}

	cacheKey := ""
	if c.recordsTTL > 0 {
		cacheKey = cacheRecordsKey(userID, since)
		if data, err := c.cache.Get(ctx, cacheKey); err == nil {
			var cached []wireRecord
			if err := json.Unmarshal(data, &cached); err == nil {
				return fromWire(cached), nil
			}
		}
	}

	payload := map[string]interface{}{
		"user_id": userID,
		"since":   since.UTC().Format(time.RFC3339),
	}

	var response struct {
		Records []wireRecord `json:"records"`
	}

	if err := c.postJSON(ctx, c.recordsURL(), payload, &response); err != nil {
		return nil, utils.NewAppError("FetchDomainRecords", "record store query failed", err)
	}

	if c.recordsTTL > 0 && cacheKey != "" && len(response.Records) > 0 {
		if data, err := json.Marshal(response.Records); err == nil {
			_ = c.cache.Set(ctx, cacheKey, data, c.recordsTTL)
		}
	}

	return fromWire(response.Records), nil
}

func fromWire(records []wireRecord) []DomainRecord {
	out := make([]DomainRecord, 0, len(records))
	for _, rec := range records {
		if rec.Domain == "" {
			continue
		}
		out = append(out, DomainRecord{
			Domain:     rec.Domain,
			CreatedAt:  rec.CreatedAt,
			Attributes: rec.Metadata,
		})
	}
	return out
}

func cacheRecordsKey(userID string, since time.Time) string {
	return fmt.Sprintf("records:%s:%s", userID, since.UTC().Format("2006-01-02"))
}

func (c *RecordStoreClient) recordsURL() string { return c.resolvePath(c.recordsPath) }

func (c *RecordStoreClient) resolvePath(p string) string {
	if c.baseURL == "" {
		return ""
	}
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *RecordStoreClient) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("record store returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
