package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoodsync/internal/logger"
	"hoodsync/internal/syncerr"
)

const sampleCSV = `mpnr,name,price,stock,description,ean,brand,link,dlv_time,dlv_cost,image1
12345,"Test Tasche","29.99","10","Eine schöne Tasche","1234567890","TestBrand","http://example.com","1-3 Tage","4.95","http://example.com/image.jpg"
67890,"Zweite Tasche","39.99","5","Noch eine Tasche","0987654321","TestBrand","http://example.com","1-3 Tage","4.95","http://example.com/image2.jpg"`

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV), ',', true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "12345", rows[0].Value("mpnr"))
	assert.Equal(t, "Test Tasche", rows[0].Value("name"))
	assert.Equal(t, "29.99", rows[0].Value("price"))
	assert.Len(t, rows[0].Columns, 11)
	assert.Equal(t, "image1", rows[0].Columns[10])
	assert.Equal(t, 2, rows[0].Line)
}

func TestParseStripsBOMAndBlankLines(t *testing.T) {
	data := "\xEF\xBB\xBFmpnr;name;price\n\n1;A;1,50\n;;\n2;B;2,00\n"

	rows, err := Parse(strings.NewReader(data), ';', true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0].Value("mpnr"))
	assert.Equal(t, "1,50", rows[0].Value("price"))
}

func TestParseShortRecord(t *testing.T) {
	rows, err := Parse(strings.NewReader("mpnr,name,price\n1,A\n"), ',', false)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, []string{"mpnr", "name", "price"}, rows[0].Columns)
	assert.Equal(t, "", rows[0].Value("price"))
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""), ',', true)
	assert.Error(t, err)
}

func TestRowFirst(t *testing.T) {
	row := NewRow(2, []string{"mpnr", "aid"}, []string{"  ", "A-1"})
	assert.Equal(t, "A-1", row.First("mpnr", "aid"))
	assert.Equal(t, "", row.First("nope"))
}

func TestLoaderTestOverride(t *testing.T) {
	l := NewLoader(Options{URL: "http://unused.invalid", TestCSV: sampleCSV, TrimSpace: true}, nil, logger.Discard())

	rows, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLoaderFetchesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	l := NewLoader(Options{URL: srv.URL, MaxRows: 1, TrimSpace: true}, srv.Client(), logger.Discard())

	rows, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "12345", rows[0].Value("mpnr"))
}

func TestLoaderBadStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLoader(Options{URL: srv.URL}, srv.Client(), logger.Discard())

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, syncerr.IsTransport(err))
	assert.Contains(t, err.Error(), "404")
}

func TestLoaderMissingURL(t *testing.T) {
	l := NewLoader(Options{}, nil, logger.Discard())

	_, err := l.Load(context.Background())
	assert.True(t, syncerr.IsTransport(err))
}

func TestSnippetKeepsRunes(t *testing.T) {
	assert.Equal(t, "Grü...", snippet([]byte("Grüße aus Berlin"), 3))
	assert.Equal(t, "kurz", snippet([]byte(" kurz "), 10))
}
