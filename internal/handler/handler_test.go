package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/cdnstyle/internal/handler"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		Name                string
		AcceptHeader        string
		ExpectedContentType string
		ExpectedStatus      int
		ExpectedResponse    string
		Handler             handler.Handler
	}{
		{"internal server error", "text/html", "text/plain; charset=utf-8", http.StatusInternalServerError, "Something went wrong\n", errorHandler},
		{"internal server error json", "application/json", "application/json", http.StatusInternalServerError, "{\"error\":\"Something went wrong\"}\n", errorHandler},
		{"bad request", "text/html", "text/plain; charset=utf-8", http.StatusBadRequest, "Bad request test\n", badRequestHandler},
		{"bad request json", "application/json", "application/json", http.StatusBadRequest, "{\"error\":\"Bad request test\"}\n", badRequestHandler},
		{"not found", "", "text/plain; charset=utf-8", http.StatusNotFound, "Style not found\n", notFoundHandler},
		{"forbidden json", "application/json", "application/json", http.StatusForbidden, "{\"error\":\"Invalid derivative token\"}\n", forbiddenHandler},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if test.AcceptHeader != "" {
				req.Header.Set("Accept", test.AcceptHeader)
			}

			w := httptest.NewRecorder()
			test.Handler.ServeHTTP(w, req)
			res := w.Result()
			defer res.Body.Close()

			if res.StatusCode != test.ExpectedStatus {
				t.Errorf("wrong response code, %#v", res.StatusCode)
			}

			if contentType := res.Header.Get("Content-Type"); contentType != test.ExpectedContentType {
				t.Errorf("wrong content type, %#v", contentType)
			}

			if cacheControl := res.Header.Get("Cache-Control"); cacheControl != "no-cache, no-store, must-revalidate" {
				t.Errorf("wrong cache control, %#v", cacheControl)
			}

			body, err := io.ReadAll(res.Body)
			if err != nil {
				t.Fatal(err)
			}

			if string(body) != test.ExpectedResponse {
				t.Errorf("wrong response %s", body)
			}
		})
	}
}

func TestHandlerSuccess(t *testing.T) {
	h := handler.Handler(func(w http.ResponseWriter, r *http.Request) *handler.Error {
		w.Write([]byte("ok"))
		return nil
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("wrong response %d %q", w.Code, w.Body.String())
	}

	if w.Header().Get("Cache-Control") != "" {
		t.Errorf("cache control set on a successful response")
	}
}

func errorHandler(rw http.ResponseWriter, req *http.Request) *handler.Error {
	return handler.InternalServerError()
}

func badRequestHandler(rw http.ResponseWriter, req *http.Request) *handler.Error {
	return handler.BadRequest("Bad request test")
}

func notFoundHandler(rw http.ResponseWriter, req *http.Request) *handler.Error {
	return handler.NotFound("Style not found")
}

func forbiddenHandler(rw http.ResponseWriter, req *http.Request) *handler.Error {
	return handler.Forbidden()
}
