package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/DMarby/cdnstyle/internal/cli"
	"github.com/DMarby/cdnstyle/internal/style"
	"github.com/DMarby/cdnstyle/internal/transform"
)

var fixtures = []string{
	"--styles", "../../test/fixtures/styles/styles.toml",
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := cli.New(&out).Execute(context.Background(), append(append([]string{}, args...), fixtures...))
	return out.String(), err
}

func TestURL(t *testing.T) {
	tests := []struct {
		Name     string
		Args     []string
		Expected string
	}{
		{
			"explicit style",
			[]string{"url", "--style", "thumbnail", "--metadata", "../../test/fixtures/file/metadata.json", "bf://SH123/at/abc123/photo.jpg"},
			"https://cdn.example.com/SH123/at/abc123/photo.jpg?height=300&precrop=800%2C800%2Cx200%2Cy0%2Csafe&quality=80&width=300\n",
		},
		{
			"styled uri",
			[]string{"url", "-m", "../../test/fixtures/file/metadata.json", "bf://styles/medium/bf/SH123/at/abc123/photo.jpg"},
			"https://cdn.example.com/SH123/at/abc123/photo.jpg?height=400&width=600\n",
		},
		{
			"fallback for missing attachment",
			[]string{"url", "--fallback", "-s", "thumbnail", "-m", "../../test/fixtures/file/metadata.json", "bf://SH123/at/missing/photo.jpg"},
			"https://cdn.example.com/SH123/at/missing/photo.jpg?quality=80\n",
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			out, err := run(t, test.Args...)
			if err != nil {
				t.Fatal(err)
			}

			if out != test.Expected {
				t.Errorf("wrong output %q", out)
			}
		})
	}
}

func TestURLJSON(t *testing.T) {
	out, err := run(t, "url", "--json", "-s", "medium", "-m", "../../test/fixtures/file/metadata.json", "bf://SH123/at/abc123/photo.jpg")
	if err != nil {
		t.Fatal(err)
	}

	var derivative struct {
		Style      string   `json:"style"`
		Width      int      `json:"width"`
		Height     int      `json:"height"`
		Operations []struct {
			Kind string `json:"kind"`
		} `json:"operations"`
	}
	if err := json.Unmarshal([]byte(out), &derivative); err != nil {
		t.Fatal(err)
	}

	if derivative.Width != 600 || derivative.Height != 400 || derivative.Style != "medium" {
		t.Errorf("wrong derivative %+v", derivative)
	}

	if len(derivative.Operations) != 1 || derivative.Operations[0].Kind != "resize" {
		t.Errorf("wrong operations %+v", derivative.Operations)
	}
}

func TestURLErrors(t *testing.T) {
	_, err := run(t, "url", "-s", "medium", "-m", "../../test/fixtures/file/metadata.json", "bf://SH123/at/missing/photo.jpg")
	if !errors.Is(err, transform.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	_, err = run(t, "url", "-s", "missing", "-m", "../../test/fixtures/file/metadata.json", "bf://SH123/at/abc123/photo.jpg")
	if !errors.Is(err, style.ErrStyleNotFound) {
		t.Errorf("expected style not found, got %v", err)
	}

	if _, err := run(t, "url"); err == nil {
		t.Errorf("expected an error without a uri")
	}
}

func TestStyles(t *testing.T) {
	out, err := run(t, "styles")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("wrong number of styles %d: %q", len(lines), out)
	}

	if lines[0] != "banner\tBanner\t2 effects" {
		t.Errorf("wrong style line %q", lines[0])
	}
}

func TestSign(t *testing.T) {
	out, err := run(t, "sign", "--hmac-key", "test", "/styles/medium/SH123/at/abc123/photo.jpg?v=2")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out, "/styles/medium/SH123/at/abc123/photo.jpg?itok=") || !strings.Contains(out, "&v=2") {
		t.Errorf("wrong signed path %q", out)
	}

	if _, err := run(t, "sign", "/styles/medium/SH123/at/abc123/photo.jpg"); err == nil {
		t.Errorf("expected an error without a key")
	}
}

func TestBatch(t *testing.T) {
	input := strings.Join([]string{
		"bf://SH123/at/abc123/photo.jpg",
		"",
		"bf://SH123/at/missing/photo.jpg",
		"bf://SH123/at/def456/animation.gif",
	}, "\n")

	var out bytes.Buffer
	c := cli.New(&out)
	c.SetInput(strings.NewReader(input))

	err := c.Execute(context.Background(), append([]string{"batch", "-s", "medium", "-w", "2", "-m", "../../test/fixtures/file/metadata.json"}, fixtures...))
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("wrong number of lines %d: %q", len(lines), out.String())
	}

	if lines[0] != "bf://SH123/at/abc123/photo.jpg\thttps://cdn.example.com/SH123/at/abc123/photo.jpg?height=400&width=600" {
		t.Errorf("wrong line %q", lines[0])
	}

	if !strings.HasPrefix(lines[1], "bf://SH123/at/missing/photo.jpg\terror: ") {
		t.Errorf("wrong line %q", lines[1])
	}

	if lines[2] != "bf://SH123/at/def456/animation.gif\thttps://cdn.example.com/SH123/at/def456/animation.gif?height=400&width=600" {
		t.Errorf("wrong line %q", lines[2])
	}
}
