package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/mind-engage/eduquiz/internal/auth/middleware"
	"github.com/mind-engage/eduquiz/internal/course"
	"github.com/mind-engage/eduquiz/internal/quiz"
	"github.com/mind-engage/eduquiz/internal/session"
	"github.com/mind-engage/eduquiz/internal/storage"
)

type switchSource struct {
	mu      sync.Mutex
	courses []course.Course
	err     error
}

func (s *switchSource) Fetch(context.Context) ([]course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courses, s.err
}

func (s *switchSource) set(c []course.Course, err error) {
	s.mu.Lock()
	s.courses, s.err = c, err
	s.mu.Unlock()
}

type testServer struct {
	srv  *httptest.Server
	src  *switchSource
	auth *authmw.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	src := &switchSource{}
	cache := course.NewCache(storage.NewMemoryStore(), src, course.WithLogger(log))

	qs := []quiz.Question{
		{ID: 1, Question: "q1", Options: []string{"A", "X"}, Answer: "A"},
		{ID: 2, Question: "q2", Options: []string{"B", "X"}, Answer: "B"},
		{ID: 3, Question: "q3", Options: []string{"C", "X"}, Answer: "C"},
	}
	reg, err := session.NewRegistry(qs, session.WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	auth := authmw.NewAuthService("test-secret")

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Cache:         cache,
		Sessions:      reg,
		Auth:          auth,
		AdminUser:     "admin",
		AdminPassHash: string(hash),
		CORSOrigins:   []string{"http://localhost:3000"},
	}))
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, src: src, auth: auth}
}

func (ts *testServer) do(t *testing.T, method, path, body, token string, out any) int {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rdr)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil && res.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return res.StatusCode
}

func TestCoursesFreshThenStale(t *testing.T) {
	ts := newTestServer(t)
	ts.src.set([]course.Course{{ID: 1, Title: "Go", Level: course.LevelBeginner}}, nil)

	var out coursesResponse
	if code := ts.do(t, "GET", "/courses", "", "", &out); code != 200 {
		t.Fatalf("status = %d", code)
	}
	if out.Provenance != course.Fresh || len(out.Courses) != 1 || out.FetchedAt == nil || out.Warning != "" {
		t.Fatalf("fresh response = %+v", out)
	}

	ts.src.set(nil, course.ErrNetworkFailure)
	out = coursesResponse{}
	if code := ts.do(t, "GET", "/courses", "", "", &out); code != 200 {
		t.Fatalf("stale status = %d", code)
	}
	if out.Provenance != course.Stale || len(out.Courses) != 1 || out.Warning == "" {
		t.Fatalf("stale response = %+v", out)
	}

	var status map[string]any
	ts.do(t, "GET", "/courses/cache", "", "", &status)
	if status["cached"] != true || status["last_fetched_at"] == nil {
		t.Fatalf("cache status = %v", status)
	}
}

func TestInvalidateRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)
	ts.src.set([]course.Course{{ID: 1, Level: course.LevelAdvanced}}, nil)
	ts.do(t, "GET", "/courses", "", "", nil)

	if code := ts.do(t, "DELETE", "/courses/cache", "", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous invalidate: %d", code)
	}
	learner, _ := ts.auth.IssueJWT("kid", "learner")
	if code := ts.do(t, "DELETE", "/courses/cache", "", learner, nil); code != http.StatusForbidden {
		t.Fatalf("learner invalidate: %d", code)
	}

	var login map[string]string
	if code := ts.do(t, "POST", "/auth/login", `{"username":"admin","password":"pw"}`, "", &login); code != 200 {
		t.Fatalf("login: %d", code)
	}
	if code := ts.do(t, "DELETE", "/courses/cache", "", login["access_token"], nil); code != http.StatusNoContent {
		t.Fatalf("admin invalidate: %d", code)
	}

	ts.src.set(nil, errors.New("offline"))
	var out coursesResponse
	if code := ts.do(t, "GET", "/courses", "", "", &out); code != http.StatusServiceUnavailable {
		t.Fatalf("no-cache status = %d", code)
	}
	if out.Courses == nil || len(out.Courses) != 0 || out.Provenance != course.Stale {
		t.Fatalf("no-cache body = %+v", out)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	var created struct {
		ID   string       `json:"id"`
		View session.View `json:"view"`
	}
	if code := ts.do(t, "POST", "/sessions", "", "", &created); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	base := "/sessions/" + created.ID

	answers := []string{`{"question_id":1,"answer":"A"}`, `{"question_id":2,"answer":"X"}`, `{"question_id":3,"answer":"C"}`}
	for _, a := range answers {
		if code := ts.do(t, "POST", base+"/answers", a, "", nil); code != 200 {
			t.Fatalf("answer %s: %d", a, code)
		}
	}
	if code := ts.do(t, "POST", base+"/answers", `{"question_id":9,"answer":"A"}`, "", nil); code != http.StatusBadRequest {
		t.Fatalf("unknown question: %d", code)
	}
	if code := ts.do(t, "POST", base+"/answers", `{"answer":"A"}`, "", nil); code != http.StatusBadRequest {
		t.Fatalf("missing question id: %d", code)
	}

	var v session.View
	for i := 0; i < 5; i++ {
		ts.do(t, "POST", base+"/advance", "", "", &v)
	}
	if v.Index != 2 || !v.IsLast || v.Completed {
		t.Fatalf("after advancing: %+v", v)
	}
	ts.do(t, "POST", base+"/retreat", "", "", &v)
	if v.Index != 1 {
		t.Fatalf("after retreat: %+v", v)
	}

	if code := ts.do(t, "GET", base+"/review", "", "", nil); code != http.StatusConflict {
		t.Fatalf("review before submit: %d", code)
	}

	var res session.Result
	if code := ts.do(t, "POST", base+"/submit", "", "", &res); code != 200 {
		t.Fatalf("submit: %d", code)
	}
	if res.Score != 2 || res.Total != 3 {
		t.Fatalf("result = %+v", res)
	}
	var again session.Result
	ts.do(t, "POST", base+"/submit", "", "", &again)
	if again != res {
		t.Fatalf("resubmit = %+v", again)
	}

	if code := ts.do(t, "POST", base+"/answers", `{"question_id":2,"answer":"B"}`, "", nil); code != http.StatusConflict {
		t.Fatalf("answer after submit: %d", code)
	}
	if code := ts.do(t, "GET", base+"/review", "", "", nil); code != 200 {
		t.Fatalf("review: %d", code)
	}

	ts.do(t, "POST", base+"/reset", "", "", &v)
	if v.Index != 0 || v.Completed || v.HasAnswer {
		t.Fatalf("after reset: %+v", v)
	}

	if code := ts.do(t, "GET", "/sessions/does-not-exist", "", "", nil); code != http.StatusNotFound {
		t.Fatalf("unknown session: %d", code)
	}
}
