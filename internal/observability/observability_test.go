package observability

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/config"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("POST", "/wechat", 200, 12*time.Millisecond)
	RecordCodecError("decode", "malformed_xml")

	before := testutil.ToFloat64(decodedMessages.WithLabelValues("text", ""))
	RecordDecoded("text", "")
	assert.Equal(t, before+1, testutil.ToFloat64(decodedMessages.WithLabelValues("text", "")))

	hits := testutil.ToFloat64(replyCacheHits)
	RecordReplyCacheHit()
	assert.Equal(t, hits+1, testutil.ToFloat64(replyCacheHits))
}

func TestSetupLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := SetupLogger(config.LogConfig{Level: "debug", Format: "json", Outputs: []string{path}})
	require.NoError(t, err)
	defer func() { zap.ReplaceGlobals(zap.NewNop()) }()

	logger.Info("hello")
	require.NoError(t, logger.Sync())
	assert.FileExists(t, path)
}

func TestMiddleware_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.NewNop()), RequestMetrics())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("requestID"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Body.String())
}
