package assets

import (
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var static = fstest.MapFS{
	"app.css":       {Data: []byte("body{margin:0}")},
	"js/wallet.js":  {Data: []byte("console.log('hi')")},
	"img/README.md": {Data: []byte("not served to pages")},
}

func TestManifest(t *testing.T) {
	m, err := NewManifest(static)
	require.NoError(t, err)

	css := m.Path("/assets/app.css")
	assert.Regexp(t, regexp.MustCompile(`^/assets/app\.[0-9a-f]{16}\.css$`), css)
	assert.Regexp(t, regexp.MustCompile(`^/assets/js/wallet\.[0-9a-f]{16}\.js$`), m.Path("/assets/js/wallet.js"))
	assert.Equal(t, css, m.Path("/assets/app.css"), "hashes are stable")

	assert.Equal(t, "/assets/missing.x.png", m.Path("/assets/missing.png"))
	assert.Panics(t, func() { m.Path("/assets/noext") })
}

func TestHttpHandlerServesVersionedPaths(t *testing.T) {
	m, err := NewManifest(static)
	require.NoError(t, err)

	mux := chi.NewMux()
	HttpHandler(mux, static)

	req := httptest.NewRequest(http.MethodGet, m.Path("/assets/app.css"), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "max-age=31536000", rec.Header().Get("Cache-Control"))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "body{margin:0}", string(body))
}
