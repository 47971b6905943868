// Package fetcher downloads the raw tables of the rules export and keeps a
// copy of each on disk so later runs can skip the download.
package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"codex-backend/internal/components/assert"
	"codex-backend/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("codex.internal.fetcher")

const (
	report_fetch_cache    = "fetch.cache"
	report_fetch_download = "fetch.download"
)

const tableExtension = ".csv"

type Options struct {
	BaseUrl  string
	CacheDir string
	// RequestsPerSecond limits how fast tables are downloaded, the export is
	// served by a third party.
	RequestsPerSecond float64
}

type Fetcher struct {
	http     *resty.Client
	cacheDir string
	tel      telemetry.API
}

func New(opts Options, tel telemetry.API) (*Fetcher, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.CacheDir)
	assert.Positive("requests per second", opts.RequestsPerSecond)

	tel = telemetry.NewScopedAPI("fetcher", tel)

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))
	httpClient.SetTimeout(time.Minute)

	// burst of 1 spaces every download out evenly
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	return &Fetcher{
		http:     httpClient,
		cacheDir: opts.CacheDir,
		tel:      tel,
	}, nil
}

func (f *Fetcher) cachePath(table string) string {
	return filepath.Join(f.cacheDir, table+tableExtension)
}

// Fetch returns the raw text of table, from the cache when a copy exists.
func (f *Fetcher) Fetch(ctx context.Context, table string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("table", table))

	cached, err := os.ReadFile(f.cachePath(table))
	if err == nil {
		f.tel.ReportDebug(report_fetch_cache, table)
		span.SetAttributes(attribute.Bool("cached", true))
		return string(cached), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	res, err := f.http.R().
		SetContext(ctx).
		Get("/" + table + tableExtension)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", table, err)
	}
	if res.IsError() {
		err := fmt.Errorf("download %s: unexpected status %s", table, res.Status())
		f.tel.ReportBroken(report_fetch_download, err)
		return "", err
	}

	err = os.MkdirAll(f.cacheDir, 0755)
	if err != nil {
		return "", err
	}
	err = os.WriteFile(f.cachePath(table), res.Body(), 0644)
	if err != nil {
		return "", err
	}
	return string(res.Body()), nil
}

// FetchAll fetches every table in order and returns their text keyed by
// table name.
func (f *Fetcher) FetchAll(ctx context.Context, tables []string) (map[string]string, error) {
	out := make(map[string]string, len(tables))
	for _, table := range tables {
		text, err := f.Fetch(ctx, table)
		if err != nil {
			return nil, err
		}
		out[table] = text
	}
	return out, nil
}

// ClearCache removes every cached table so the next fetch downloads again.
func ClearCache(dir string) error {
	err := os.RemoveAll(dir)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
