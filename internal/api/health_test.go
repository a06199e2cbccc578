package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func(context.Context) error { return nil }
	failing := func(context.Context) error { return assertErr{} }

	cases := []struct {
		name       string
		checks     map[string]Check
		path       string
		want       int
		wantFailed []string
	}{
		{name: "healthz ok", checks: map[string]Check{"source": failing}, path: "/healthz", want: 200},
		{name: "readyz ok", checks: map[string]Check{"source": ok, "cache": ok}, path: "/readyz", want: 200},
		{name: "readyz without checks", checks: nil, path: "/readyz", want: 200},
		{name: "readyz nil check ignored", checks: map[string]Check{"cache": nil}, path: "/readyz", want: 200},
		{name: "readyz degraded", checks: map[string]Check{"source": failing, "cache": ok}, path: "/readyz", want: 503, wantFailed: []string{"source"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.checks).Register(r)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
			if len(tc.wantFailed) == 0 {
				return
			}
			var body struct {
				Failed map[string]string `json:"failed"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if len(body.Failed) != len(tc.wantFailed) {
				t.Fatalf("failed=%v, want %v", body.Failed, tc.wantFailed)
			}
			for _, name := range tc.wantFailed {
				if body.Failed[name] == "" {
					t.Fatalf("missing failed check %q in %v", name, body.Failed)
				}
			}
		})
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "err" }
