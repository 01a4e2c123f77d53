package handlers

import (
	"bufio"
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"house-price-service/internal/adapters/primary/http/middleware"
	"house-price-service/internal/adapters/secondary/artifact"
	"house-price-service/internal/adapters/secondary/predictionlog"
	"house-price-service/internal/adapters/secondary/telemetry"
	"house-price-service/internal/core/domain"
	"house-price-service/internal/core/services"
	"house-price-service/internal/testutil"
)

// Known coefficients: price = -10 + 0.08*sqft + 2.5*bath + 4*bhk + 30*[Whitefield] - 5*[Electronic City] + 12*[Indira Nagar]
const (
	fixtureModel = `{"type":"linear_regression","coefficients":[0.08,2.5,4.0,30.0,-5.0,12.0],"intercept":-10.0}`
	fixturePrep  = `{"type":"column_transformer","numeric_features":["total_sqft","bath","bhk"],"categorical_feature":"location","categories":["Whitefield","Electronic City","Indira Nagar"]}`
	fixtureMeta  = `{
  "model_name": "LinearRegression",
  "training_date": "2025-06-01",
  "features": ["total_sqft", "bath", "bhk", "location"],
  "performance_metrics": {"test_rmse": 10.125, "test_r2": 0.86}
}`
)

type apiFixture struct {
	router   *gin.Engine
	logPath  string
	metaPath string
}

func setupPredictionRouter(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	paths := artifact.Paths{
		Model:        filepath.Join(dir, "best_model.json"),
		Preprocessor: filepath.Join(dir, "preprocessor.json"),
		Metadata:     filepath.Join(dir, "model_metadata.json"),
	}
	require.NoError(t, os.WriteFile(paths.Model, []byte(fixtureModel), 0o644))
	require.NoError(t, os.WriteFile(paths.Preprocessor, []byte(fixturePrep), 0o644))
	require.NoError(t, os.WriteFile(paths.Metadata, []byte(fixtureMeta), 0o644))

	bundle, err := artifact.Load(paths)
	require.NoError(t, err)

	logPath := filepath.Join(dir, "logs", "prediction_logs.jsonl")
	fileLog, err := predictionlog.NewFileLog(logPath)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	svc := services.NewPredictionService(bundle.Model, bundle.Encoder, bundle.Metadata, bundle.RawMetadata,
		fileLog, telemetry.NewPrometheusRecorder(reg))

	r := gin.New()
	r.Use(middleware.RequestID(), gin.Recovery())
	New(svc, reg).RegisterRoutes(r)

	return &apiFixture{router: r, logPath: logPath, metaPath: paths.Metadata}
}

func (f *apiFixture) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) logLines(t *testing.T) int {
	t.Helper()
	file, err := os.Open(f.logPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	require.NoError(t, err)
	defer file.Close()

	n := 0
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line), "log line is not JSON")
		n++
	}
	return n
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPredict_KnownCoefficients(t *testing.T) {
	f := setupPredictionRouter(t)

	w := f.do("POST", "/predict", []byte(`{"location":"Whitefield","total_sqft":1200,"bath":2,"bhk":3}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody(t, w)
	// -10 + 0.08*1200 + 2.5*2 + 4*3 + 30
	assert.InDelta(t, 133.0, resp["predicted_price_lakhs"], 0.005)
	assert.Equal(t, 20.25, resp["prediction_interval_95"])
	assertFieldString(t, resp, "timestamp")
	assertFieldString(t, resp, "prediction_id")
	assertFieldMap(t, resp, "input")
	assertFieldMap(t, resp, "model_metadata")

	input := resp["input"].(map[string]interface{})
	assert.Equal(t, "Whitefield", input["location"])
	assert.Equal(t, 3.0, input["bhk"])

	meta := resp["model_metadata"].(map[string]interface{})
	assert.Equal(t, "LinearRegression", meta["model_name"])
	assert.Equal(t, 10.125, meta["test_rmse"])
}

func TestPredict_Deterministic(t *testing.T) {
	f := setupPredictionRouter(t)
	body := []byte(`{"location":"Indira Nagar","total_sqft":1733.5,"bath":3,"bhk":3}`)

	first := decodeBody(t, f.do("POST", "/predict", body))
	second := decodeBody(t, f.do("POST", "/predict", body))

	assert.Equal(t, first["predicted_price_lakhs"], second["predicted_price_lakhs"])
	assert.NotEqual(t, first["prediction_id"], second["prediction_id"])
}

func TestPredict_UnknownLocationDegradesGracefully(t *testing.T) {
	f := setupPredictionRouter(t)

	w := f.do("POST", "/predict", []byte(`{"location":"Atlantis","total_sqft":1200,"bath":2,"bhk":3}`))
	require.Equal(t, http.StatusOK, w.Code)

	// Same house without any location indicator: -10 + 96 + 5 + 12
	assert.InDelta(t, 103.0, decodeBody(t, w)["predicted_price_lakhs"], 0.005)
}

func TestPredict_AppendsOneLogLinePerSuccess(t *testing.T) {
	f := setupPredictionRouter(t)
	require.NoError(t, os.WriteFile(f.logPath, []byte("{\"previous\":true}\n"), 0o644))
	before := f.logLines(t)

	const n = 4
	for i := 0; i < n; i++ {
		w := f.do("POST", "/predict", []byte(`{"location":"Whitefield","total_sqft":900,"bath":1,"bhk":2}`))
		require.Equal(t, http.StatusOK, w.Code)
	}
	// rejected requests never reach the log
	f.do("POST", "/predict", []byte(`{"location":"Whitefield","total_sqft":0,"bath":1,"bhk":2}`))

	assert.Equal(t, before+n, f.logLines(t))
}

func TestPredict_ZeroSqftRejected(t *testing.T) {
	f := setupPredictionRouter(t)

	w := f.do("POST", "/predict", []byte(`{"location":"Whitefield","total_sqft":0,"bath":2,"bhk":3}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "validation failed", resp["error"])
	assert.Contains(t, resp["detail"], "total_sqft")
	assert.Equal(t, 0, f.logLines(t))
}

func TestPredict_StructuralValidation(t *testing.T) {
	f := setupPredictionRouter(t)

	cases := map[string]string{
		"malformed json":   `{"location":`,
		"missing bhk":      `{"location":"Whitefield","total_sqft":1200,"bath":2}`,
		"string bhk":       `{"location":"Whitefield","total_sqft":1200,"bath":2,"bhk":"three"}`,
		"fractional bhk":   `{"location":"Whitefield","total_sqft":1200,"bath":2,"bhk":2.5}`,
		"missing location": `{"total_sqft":1200,"bath":2,"bhk":3}`,
		"zero bath":        `{"location":"Whitefield","total_sqft":1200,"bath":0,"bhk":3}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := f.do("POST", "/predict", []byte(body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPredict_ModelFailureIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	model := new(testutil.MockPredictor)
	encoder := new(testutil.MockFeatureEncoder)
	encoder.On("Encode", mock.Anything).Return([]float64{1}, nil)
	model.On("Predict", mock.Anything).Return(0.0, errors.New("shape mismatch"))

	svc := services.NewPredictionService(model, encoder, &domain.ModelMetadata{}, []byte(`{}`), nil, nil)
	r := gin.New()
	New(svc, nil).RegisterRoutes(r)

	req, _ := http.NewRequest("POST", "/predict", bytes.NewReader([]byte(`{"location":"x","total_sqft":1,"bath":1,"bhk":1}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "prediction failed", resp["error"])
	assert.Contains(t, resp["detail"], "shape mismatch")

	// the process keeps serving
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPredict_LogLevelByOutcome(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(func() { log.StandardLogger().ReplaceHooks(make(log.LevelHooks)) })

	f := setupPredictionRouter(t)

	hook.Reset()
	w := f.do("POST", "/predict", []byte(`{"location":"Whitefield","total_sqft":0,"bath":2,"bhk":3}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, log.ErrorLevel, e.Level, e.Message)
	}

	gin.SetMode(gin.TestMode)
	model := new(testutil.MockPredictor)
	encoder := new(testutil.MockFeatureEncoder)
	encoder.On("Encode", mock.Anything).Return([]float64{1}, nil)
	model.On("Predict", mock.Anything).Return(0.0, errors.New("shape mismatch"))
	svc := services.NewPredictionService(model, encoder, &domain.ModelMetadata{}, []byte(`{}`), nil, nil)
	r := gin.New()
	New(svc, nil).RegisterRoutes(r)

	hook.Reset()
	req, _ := http.NewRequest("POST", "/predict", bytes.NewReader([]byte(`{"location":"x","total_sqft":1,"bath":1,"bhk":1}`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "predict failed", hook.LastEntry().Message)
}

func TestGetMetadata_ByteIdentical(t *testing.T) {
	f := setupPredictionRouter(t)
	onDisk, err := os.ReadFile(f.metaPath)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		w := f.do("GET", "/metadata", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, onDisk, w.Body.Bytes())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	}
}

func TestHealth_AllLoadedAfterPredict(t *testing.T) {
	f := setupPredictionRouter(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/predict", []byte(`{"location":"Whitefield","total_sqft":1000,"bath":2,"bhk":2}`)).Code)

	w := f.do("GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assertFieldBool(t, resp, "model_loaded")
	assert.Equal(t, true, resp["model_loaded"])
	assert.Equal(t, true, resp["preprocessor_loaded"])
	assert.Equal(t, true, resp["metadata_loaded"])
}

func TestHealth_DegradedWithoutArtifacts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(services.NewPredictionService(nil, nil, nil, nil, nil, nil), nil).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decodeBody(t, w)["status"])
}

func TestListLocations(t *testing.T) {
	f := setupPredictionRouter(t)

	w := f.do("GET", "/locations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, []interface{}{"Electronic City", "Indira Nagar", "Whitefield"}, resp["locations"])
	assertFieldNumber(t, resp, "total")
}

func TestMetrics_Exposed(t *testing.T) {
	f := setupPredictionRouter(t)
	f.do("POST", "/predict", []byte(`{"location":"Atlantis","total_sqft":1000,"bath":2,"bhk":2}`))

	w := f.do("GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `house_price_predictions_total{outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), "house_price_unknown_locations_total 1")
}

// ---------------------------------------------------------------------------
// Helper: assert JSON field exists and has expected type
// ---------------------------------------------------------------------------

func assertFieldString(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isStr := val.(string)
		assert.True(t, isStr, "field %q should be string, got %T", key, val)
	}
}

func assertFieldNumber(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isNum := val.(float64)
		assert.True(t, isNum, "field %q should be number, got %T", key, val)
	}
}

func assertFieldBool(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isBool := val.(bool)
		assert.True(t, isBool, "field %q should be bool, got %T", key, val)
	}
}

func assertFieldMap(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok && val != nil {
		_, isMap := val.(map[string]interface{})
		assert.True(t, isMap, "field %q should be object/map, got %T", key, val)
	}
}
