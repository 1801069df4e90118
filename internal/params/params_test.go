package params_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/DMarby/cdnstyle/internal/hmac"
	"github.com/DMarby/cdnstyle/internal/params"
	"github.com/gorilla/mux"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		Name     string
		Values   url.Values
		Expected string
	}{
		{"empty", url.Values{}, ""},
		{"sorted", url.Values{"width": {"100"}, "height": {"80"}}, "?height=80&width=100"},
		{"escapes values", url.Values{"crop": {"1,2,x3,y4,safe"}}, "?crop=1%2C2%2Cx3%2Cy4%2Csafe"},
		{"empty value", url.Values{"dl": {""}}, "?dl"},
		{"multiple values", url.Values{"v": {"1", "2"}}, "?v=1&v=2"},
	}

	for _, test := range tests {
		if query := params.BuildQuery(test.Values); query != test.Expected {
			t.Errorf("%s: wrong query %s", test.Name, query)
		}
	}
}

func TestSign(t *testing.T) {
	h := &hmac.HMAC{Key: []byte("foobar")}

	signed, err := params.Sign(h, "/styles/thumbnail/SH123/at/abc123/photo.jpg", url.Values{"v": {"2"}})
	if err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest("GET", signed, nil)
	valid, err := params.ValidateToken(h, req)
	if err != nil {
		t.Fatal(err)
	}

	if !valid {
		t.Errorf("token does not validate for %s", signed)
	}

	tampered, _ := http.NewRequest("GET", signed+"&v=3", nil)
	valid, err = params.ValidateToken(h, tampered)
	if err != nil {
		t.Fatal(err)
	}

	if valid {
		t.Error("token validates for a tampered url")
	}
}

func TestGetParams(t *testing.T) {
	router := mux.NewRouter()

	var got *params.Params
	var gotErr error
	router.HandleFunc("/styles/{style}/{brandfolder}/at/{attachment}/{filename}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = params.GetParams(r)
	})

	tests := []struct {
		Name          string
		URL           string
		ExpectedURI   string
		ExpectedStyle string
		ExpectedError error
	}{
		{"path params", "/styles/thumbnail/SH123/at/abc123/photo.jpg", "bf://SH123/at/abc123/photo.jpg", "thumbnail", nil},
		{"keeps query params", "/styles/thumbnail/SH123/at/abc123/photo.jpg?v=2&itok=abc", "bf://SH123/at/abc123/photo.jpg?v=2", "thumbnail", nil},
		{"invalid style", "/styles/thumb%20nail/SH123/at/abc123/photo.jpg", "", "", params.ErrInvalidStyle},
	}

	for _, test := range tests {
		got, gotErr = nil, nil
		req, _ := http.NewRequest("GET", test.URL, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		if gotErr != test.ExpectedError {
			t.Errorf("%s: wrong error %v", test.Name, gotErr)
			continue
		}

		if test.ExpectedError != nil {
			continue
		}

		if got.URI != test.ExpectedURI || got.Style != test.ExpectedStyle {
			t.Errorf("%s: wrong params %+v", test.Name, got)
		}
	}
}

func TestGetQueryParams(t *testing.T) {
	tests := []struct {
		Name          string
		URL           string
		ExpectedError error
	}{
		{"valid", "/v1/derivative?style=thumbnail&uri=bf%3A%2F%2FSH123%2Fat%2Fabc123%2Fphoto.jpg", nil},
		{"missing style", "/v1/derivative?uri=bf%3A%2F%2FSH123%2Fat%2Fabc123%2Fphoto.jpg", nil},
		{"invalid style", "/v1/derivative?style=bad.style&uri=bf%3A%2F%2FSH123%2Fat%2Fabc123%2Fphoto.jpg", params.ErrInvalidStyle},
		{"missing uri", "/v1/derivative?style=thumbnail", params.ErrInvalidURI},
	}

	for _, test := range tests {
		req, _ := http.NewRequest("GET", test.URL, nil)
		p, err := params.GetQueryParams(req)
		if err != test.ExpectedError {
			t.Errorf("%s: wrong error %v", test.Name, err)
			continue
		}

		if err == nil && p.URI != "bf://SH123/at/abc123/photo.jpg" {
			t.Errorf("%s: wrong uri %s", test.Name, p.URI)
		}
	}
}
