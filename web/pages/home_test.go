package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cristianadrielbraun/qrtoolkit/web/components"
)

func TestHomePageListsEndpoints(t *testing.T) {
	eps := []components.Endpoint{
		{Method: "GET", Path: "/api/qr", Description: "render <png>"},
		{Method: "POST", Path: "/api/compare", Description: "compare"},
	}
	var buf bytes.Buffer
	if err := HomePage(eps).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"/api/qr", "/api/compare", "render &lt;png&gt;", "bg-amber-100", "<!DOCTYPE html>"} {
		if !strings.Contains(out, want) {
			t.Errorf("page is missing %q", want)
		}
	}
}
