package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/khrees2412/mockprep/internal/ai"
	"github.com/khrees2412/mockprep/internal/auth"
	"github.com/khrees2412/mockprep/internal/database"
	"github.com/khrees2412/mockprep/internal/service"
	"github.com/khrees2412/mockprep/internal/storage"
)

type stubGenerator struct{}

func (stubGenerator) GenerateQuestions(_ context.Context, req ai.QuestionRequest) ([]string, error) {
	return []string{"Tell me about a system you designed."}, nil
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.Open(database.DriverSQLite, "", t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	blobs, err := storage.NewLocal(t.TempDir(), "resumes", "")
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}

	svc := service.New(service.Deps{
		Profiles:   store,
		Resumes:    store,
		Settings:   store,
		Interviews: store,
		Activity:   store,
		Blobs:      blobs,
		Auth:       auth.NewProvider(store, auth.WithHashCost(bcrypt.MinCost)),
		Generator:  stubGenerator{},
		Logger:     zap.NewNop(),
	})
	return NewRouter(&Handler{Services: svc, Logger: zap.NewNop()})
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	}
	req, _ := http.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signUp(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(r, "POST", "/api/auth/signup", "", map[string]string{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var session struct {
		AccessToken string `json:"access_token"`
	}
	json.Unmarshal(w.Body.Bytes(), &session)
	if session.AccessToken == "" {
		t.Fatalf("Expected an access token, got %s", w.Body.String())
	}
	return session.AccessToken
}

func TestRequiresBearerToken(t *testing.T) {
	r := setupTestRouter(t)

	w := do(r, "GET", "/api/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	w = do(r, "GET", "/api/profile", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for unknown token, got %d", w.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	r := setupTestRouter(t)
	token := signUp(t, r)

	w := do(r, "POST", "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "wrong1"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for bad password, got %d", w.Code)
	}

	w = do(r, "GET", "/api/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var profile map[string]any
	json.Unmarshal(w.Body.Bytes(), &profile)
	if profile["name"] != "Ada Lovelace" {
		t.Errorf("Expected Ada Lovelace, got %v", profile["name"])
	}

	w = do(r, "POST", "/api/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	w = do(r, "GET", "/api/profile", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 after logout, got %d", w.Code)
	}
}

func TestSettings(t *testing.T) {
	r := setupTestRouter(t)
	token := signUp(t, r)

	w := do(r, "GET", "/api/settings", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = do(r, "PATCH", "/api/settings", token, map[string]any{"question_count": 20})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", w.Code)
	}
	var verr struct {
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	json.Unmarshal(w.Body.Bytes(), &verr)
	if len(verr.Fields) != 1 || verr.Fields[0].Message != "Maximum 15 questions allowed" {
		t.Errorf("Unexpected validation body: %s", w.Body.String())
	}

	w = do(r, "PATCH", "/api/settings", token, map[string]any{"difficulty_level": "easy", "question_count": 6})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var settings map[string]any
	json.Unmarshal(w.Body.Bytes(), &settings)
	if settings["difficulty_level"] != "easy" || settings["question_count"] != float64(6) {
		t.Errorf("Unexpected settings: %v", settings)
	}
}

func uploadRequest(t *testing.T, token, name, contentType, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()

	req, _ := http.NewRequest("POST", "/api/resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestResumeLifecycle(t *testing.T) {
	r := setupTestRouter(t)
	token := signUp(t, r)

	w := do(r, "GET", "/api/resume", token, nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"resume":null`)) {
		t.Fatalf("Expected empty resume, got %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, token, "photo.png", "image/png", "png"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422 for png, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, token, "cv.txt", "text/plain", "Go, Postgres"))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(r, "DELETE", "/api/resume", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	w = do(r, "DELETE", "/api/resume", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when no resume, got %d", w.Code)
	}

	w = do(r, "GET", "/api/activity?page=1&type=resume_upload", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var page struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Total != 1 || len(page.Items) != 1 {
		t.Errorf("Expected one upload entry, got %s", w.Body.String())
	}

	w = do(r, "GET", "/api/activity?page=0", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected page 0 to default to the first page, got %d", w.Code)
	}
	w = do(r, "GET", "/api/activity?page=abc", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad page, got %d", w.Code)
	}
}

func TestInterviews(t *testing.T) {
	r := setupTestRouter(t)
	token := signUp(t, r)

	w := do(r, "POST", "/api/interviews", token, map[string]any{"job_description": "Platform engineer, Kubernetes"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var interview map[string]any
	json.Unmarshal(w.Body.Bytes(), &interview)
	id, _ := interview["id"].(string)

	w = do(r, "GET", "/api/interviews/"+id+"/questions", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = do(r, "GET", "/api/interviews/unknown/questions", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	w = do(r, "GET", "/api/overview", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
