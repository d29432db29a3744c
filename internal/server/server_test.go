package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/arcaxh/internal/lexicon"
	"github.com/ppiankov/arcaxh/internal/model"
	"github.com/ppiankov/arcaxh/internal/translator"
)

func newTestServer(t *testing.T, mutate func(*model.Config)) *Server {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.RateLimiting.RequestsPerSecond = 0
	if mutate != nil {
		mutate(cfg)
	}
	return New(translator.New(lexicon.Default()), cfg, nil)
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestTranslateQuery(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/translate?text=arkashir+qqq+xyzin", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[model.TranslationResponse](t, rec)
	assert.Equal(t, "arkashir qqq xyzin", resp.Text)
	assert.Equal(t, "the arcaxh people qqq xyzin: (in [person])", resp.Translation)
	require.Len(t, resp.Tokens, 3)
	assert.Equal(t, translator.SourceVocabulary, resp.Tokens[0].Source)
	assert.Equal(t, translator.SourceLiteral, resp.Tokens[1].Source)
	assert.Equal(t, translator.SourceAnalysis, resp.Tokens[2].Source)
}

func TestTranslateQueryEmptyText(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/translate?text=", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[model.TranslationResponse](t, rec)
	assert.Equal(t, "", resp.Translation)
	assert.Empty(t, resp.Tokens)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/translate", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[model.ErrorResponse](t, rec).Error, "text")
}

func TestTranslateBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(`{"text":"Velkharn zorakhion"}`))
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "capital city symbiotic microorganism", decode[model.TranslationResponse](t, rec).Translation)

	for _, body := range []string{`not json`, `{}`, `{"txt":"a"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body))
		rec := do(t, s, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestTranslateBodyTooLarge(t *testing.T) {
	s := newTestServer(t, func(c *model.Config) { c.Server.MaxBodyBytes = 16 })

	body := fmt.Sprintf(`{"text":%q}`, strings.Repeat("arkashir ", 10))
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/analyze?word=Khedrith", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[model.AnalysisResponse](t, rec)
	assert.Equal(t, "Khedrith", resp.Word)
	assert.Equal(t, "Khedrith: (khe [state of being])-(ith [state/quality])", resp.Analysis)
	require.NotNil(t, resp.Prefix)
	require.NotNil(t, resp.Suffix)
	assert.Equal(t, "khe", resp.Prefix.Key)
	assert.Equal(t, "ith", resp.Suffix.Key)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/analyze?word=qqq", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[model.AnalysisResponse](t, rec)
	assert.Equal(t, "qqq", resp.Analysis)
	assert.Nil(t, resp.Prefix)
	assert.Nil(t, resp.Suffix)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLexicon(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/lexicon", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[model.LexiconResponse](t, rec)
	assert.Equal(t, lexicon.DefaultTable().Prefixes, resp.Prefixes)
	assert.Equal(t, lexicon.DefaultTable().Vocabulary, resp.Vocabulary)
	assert.Equal(t, lexicon.Stats{Prefixes: 3, Suffixes: 3, Vocabulary: 3}, resp.Stats)
}

func TestHealthAndMethods(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodDelete, "/api/analyze?word=x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, func(c *model.Config) {
		c.Server.AllowedOrigins = []string{"https://glossary.example"}
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://glossary.example")
	rec := do(t, s, req)
	assert.Equal(t, "https://glossary.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = do(t, s, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/translate", nil)
	req.Header.Set("Origin", "https://glossary.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = do(t, s, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://glossary.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *model.Config) {
		c.RateLimiting.RequestsPerSecond = 0.001
		c.RateLimiting.BurstSize = 1
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.1.1.1:5000"
	assert.Equal(t, http.StatusOK, do(t, s, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.1.1.1:5001"
	rec := do(t, s, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.1.1.2:5000"
	assert.Equal(t, http.StatusOK, do(t, s, req).Code, "other clients keep their own budget")
}

func TestServeAndShutdown(t *testing.T) {
	s := newTestServer(t, func(c *model.Config) { c.Server.MaxConns = 4 })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/translate?text=arkashir")
	require.NoError(t, err)
	var body model.TranslationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	assert.Equal(t, "the arcaxh people", body.Translation)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
