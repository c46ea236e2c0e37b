package source

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/andri/cdtable/pkg/config"
	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/format"
	"github.com/andri/cdtable/pkg/retry"
)

const defaultUserAgent = "cdtable/0.1"

// ErrUnexpectedPayload is returned when an endpoint does not answer with a
// JSON array of objects.
var ErrUnexpectedPayload = errors.New("expected a JSON array of objects")

// Dashboard reads rows from a Ceph Dashboard REST endpoint.
type Dashboard struct {
	endpoint   *url.URL
	token      string
	accept     string
	identifier string
	columns    []datatable.Column
	http       *http.Client
	userAgent  string

	// derived from the first response when no columns are configured
	derived []datatable.Column
}

// NewDashboard builds a dashboard source from cfg. timeout bounds each request.
func NewDashboard(cfg config.DashboardConfig, timeout time.Duration) (*Dashboard, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid dashboard url %q", cfg.URL)
	}
	endpoint := base.ResolveReference(&url.URL{Path: cfg.Endpoint})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for lab clusters
	}

	accept := cfg.Accept
	if accept == "" {
		accept = config.DefaultDashboardAccept
	}
	identifier := cfg.Identifier
	if identifier == "" {
		identifier = datatable.DefaultIdentifier
	}

	columns, err := dashboardColumns(cfg.Columns, identifier)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		endpoint:   endpoint,
		token:      cfg.Token,
		accept:     accept,
		identifier: identifier,
		columns:    columns,
		http:       &http.Client{Timeout: timeout, Transport: transport},
		userAgent:  defaultUserAgent,
	}, nil
}

// Name is the endpoint path, e.g. "/api/osd".
func (d *Dashboard) Name() string { return d.endpoint.Path }

func (d *Dashboard) Identifier() string { return d.identifier }

// Columns returns the configured columns. Without a configuration they are
// derived from the keys of the first fetched row.
func (d *Dashboard) Columns() []datatable.Column {
	if len(d.columns) > 0 {
		return d.columns
	}
	return d.derived
}

func (d *Dashboard) Fetch(ctx context.Context) ([]datatable.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", d.accept)
	req.Header.Set("User-Agent", d.userAgent)
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api %s: %w", d.endpoint.Path, &retry.StatusError{
			Code:       resp.StatusCode,
			Status:     resp.Status,
			RetryAfter: retry.ParseRetryAfterHeader(resp.Header.Get("Retry-After")),
		})
	}

	var payload []map[string]any
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("decode response: %w", ErrUnexpectedPayload)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	rows := make([]datatable.Row, 0, len(payload))
	for _, item := range payload {
		rows = append(rows, datatable.Row(item))
	}
	if len(d.columns) == 0 && d.derived == nil && len(rows) > 0 {
		d.derived = deriveColumns(rows[0], d.identifier)
	}
	return rows, nil
}

// dashboardColumns parses "prop" or "prop|pipe" entries, e.g.
// "stats.stat_bytes_used|bytes".
func dashboardColumns(entries []string, identifier string) ([]datatable.Column, error) {
	props := make([]string, 0, len(entries))
	pipeNames := make([]string, 0, len(entries))
	for _, entry := range entries {
		prop, pipeName, _ := strings.Cut(entry, "|")
		props = append(props, strings.TrimSpace(prop))
		pipeNames = append(pipeNames, strings.TrimSpace(pipeName))
	}
	columns := propColumns(props, identifier)
	for i, name := range pipeNames {
		if name == "" {
			continue
		}
		p, err := format.Pipe(name)
		if err != nil {
			return nil, fmt.Errorf("dashboard column %s: %w", props[i], err)
		}
		columns[i].Pipe = p
		columns[i].Filterable = false
	}
	return columns, nil
}

// propColumns builds one column per prop, named after its last path segment.
func propColumns(props []string, identifier string) []datatable.Column {
	columns := make([]datatable.Column, 0, len(props))
	for _, prop := range props {
		columns = append(columns, datatable.Column{
			Prop:       prop,
			Name:       columnTitle(prop),
			Filterable: prop != identifier,
		})
	}
	return columns
}

// deriveColumns lays out the scalar keys of row, identifier first, then
// alphabetically. Nested objects and lists become hidden columns.
func deriveColumns(row datatable.Row, identifier string) []datatable.Column {
	keys := make([]string, 0, len(row))
	for k := range row {
		if k != identifier {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	if _, ok := row[identifier]; ok {
		keys = append([]string{identifier}, keys...)
	}

	columns := propColumns(keys, identifier)
	for i := range columns {
		switch row[columns[i].Prop].(type) {
		case map[string]any, []any:
			columns[i].IsHidden = true
			columns[i].Filterable = false
		}
	}
	return columns
}

// columnTitle turns "stats.num_pgs" into "Num Pgs".
func columnTitle(prop string) string {
	if i := strings.LastIndexByte(prop, '.'); i >= 0 {
		prop = prop[i+1:]
	}
	words := strings.FieldsFunc(prop, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
