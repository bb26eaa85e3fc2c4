package mid_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/floodchain/business/web/errs"
	"github.com/ardanlabs/floodchain/business/web/mid"
	"github.com/ardanlabs/floodchain/foundation/logger"
	"github.com/ardanlabs/floodchain/foundation/web"
)

func TestErrors(t *testing.T) {
	log, err := logger.New("TEST")
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %v", err)
	}
	defer log.Sync()

	app := web.NewApp(make(chan os.Signal, 1), mid.Errors(log), mid.Metrics(), mid.Panics())

	app.Handle(http.MethodGet, "", "/trusted", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errs.NewTrusted(errors.New("insufficient funds"), http.StatusBadRequest)
	})
	app.Handle(http.MethodGet, "", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	type table struct {
		path   string
		status int
		body   string
	}

	tt := []table{
		{"/trusted", http.StatusBadRequest, "insufficient funds"},
		{"/panic", http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
	}

	for _, tst := range tt {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tst.path, nil))

		if w.Code != tst.status || !strings.Contains(w.Body.String(), tst.body) {
			t.Fatalf("Should respond %d %q for %s: got %d %s", tst.status, tst.body, tst.path, w.Code, w.Body.String())
		}
	}
}

func TestCors(t *testing.T) {
	app := web.NewApp(make(chan os.Signal, 1), mid.Cors("http://viewer.local"))

	var called int
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		called++
		return web.Respond(ctx, w, "ok", http.StatusOK)
	}
	app.Handle(http.MethodGet, "", "/cors", h)
	app.Handle(http.MethodOptions, "", "/cors", h)

	type table struct {
		method string
		origin string
		status int
		allow  string
		called int
	}

	tt := []table{
		{http.MethodGet, "http://viewer.local", http.StatusOK, "http://viewer.local", 1},
		{http.MethodGet, "http://other.local", http.StatusOK, "", 2},
		{http.MethodOptions, "http://viewer.local", http.StatusNoContent, "http://viewer.local", 2},
	}

	for _, tst := range tt {
		r := httptest.NewRequest(tst.method, "/cors", nil)
		r.Header.Set("Origin", tst.origin)

		w := httptest.NewRecorder()
		app.ServeHTTP(w, r)

		if w.Code != tst.status {
			t.Fatalf("Should respond %d to %s from %s: got %d", tst.status, tst.method, tst.origin, w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tst.allow {
			t.Fatalf("Should allow origin %q for %s: got %q", tst.allow, tst.origin, got)
		}
		if called != tst.called {
			t.Fatalf("Should have called the handler %d times: got %d", tst.called, called)
		}
	}
}
