package feed

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hoodsync/internal/logger"
	"hoodsync/internal/syncerr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Options struct {
	URL       string
	TestCSV   string
	Delimiter rune
	// MaxRows limits the run to a prefix of the feed. 0 means all rows.
	MaxRows int
	// TrimSpace trims surrounding whitespace from every field.
	TrimSpace bool
}

type Loader struct {
	opts       Options
	httpClient *http.Client
	logger     *logger.Logger
}

func NewLoader(opts Options, httpClient *http.Client, logger *logger.Logger) *Loader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{
		opts:       opts,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Load fetches the feed (or uses the test override) and parses it into rows.
// Every failure is a TransportError: without a feed there is nothing to sync.
func (l *Loader) Load(ctx context.Context) ([]Row, error) {
	raw, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := Parse(bytes.NewReader(raw), l.opts.Delimiter, l.opts.TrimSpace)
	if err != nil {
		return nil, &syncerr.TransportError{Op: "parse feed", Err: err}
	}

	if l.opts.MaxRows > 0 && len(rows) > l.opts.MaxRows {
		l.logger.Info("Limiting feed to first %d of %d rows", l.opts.MaxRows, len(rows))
		rows = rows[:l.opts.MaxRows]
	}

	l.logger.Info("Loaded %d feed rows", len(rows))
	return rows, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if l.opts.TestCSV != "" {
		l.logger.Debug("Using TEST_CSV override instead of %s", l.opts.URL)
		return []byte(l.opts.TestCSV), nil
	}
	if l.opts.URL == "" {
		return nil, &syncerr.TransportError{Op: "fetch feed", Err: errors.New("feed url not configured")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.opts.URL, nil)
	if err != nil {
		return nil, &syncerr.TransportError{Op: "fetch feed", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &syncerr.TransportError{Op: "fetch feed", Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &syncerr.TransportError{Op: "fetch feed", Err: fmt.Errorf("failed to read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &syncerr.TransportError{
			Op:  "fetch feed",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(body, 200)),
		}
	}
	return body, nil
}

// Parse reads header-first CSV into rows. Blank lines are skipped; quoted
// values follow RFC 4180 with lazy quote handling for sloppy shop exports.
func Parse(r io.Reader, delimiter rune, trim bool) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = trim

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("feed is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if isBlank(record) {
			continue
		}
		if trim {
			for i := range record {
				record[i] = strings.TrimSpace(record[i])
			}
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, NewRow(line, header, record))
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func snippet(b []byte, max int) string {
	r := []rune(strings.TrimSpace(string(b)))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "..."
}
