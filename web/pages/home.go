// Package pages holds the server-rendered HTML pages.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/cristianadrielbraun/qrtoolkit/web/components"
)

const example = "/api/qr?text=qrcode.antfu.me&pixelStyle=rounded&markerShape=circle&marginNoise=true"

func methodBadge(method string) string {
	color := "bg-sky-100 text-sky-800"
	if method == "POST" {
		color = "bg-amber-100 text-amber-800"
	}
	return twmerge.Merge("inline-block w-14 rounded px-2 py-0.5 text-center font-mono text-xs", color)
}

// HomePage lists the API and shows an example render.
func HomePage(endpoints []components.Endpoint) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>qrtoolkit</title><script src="https://cdn.tailwindcss.com"></script></head>` +
			`<body class="mx-auto max-w-3xl p-8 font-sans text-slate-900">` +
			`<h1 class="mb-2 text-3xl font-bold">qrtoolkit</h1>` +
			`<p class="mb-6 text-slate-600">Stylised QR codes that still scan, and a checker for the ones you printed.</p>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<img class="mb-8 h-64 w-64 rounded border" alt="example" src="%s">`, templ.EscapeString(example)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<ul class="space-y-3">`); err != nil {
			return err
		}
		for _, e := range endpoints {
			_, err := fmt.Fprintf(w, `<li><span class="%s">%s</span> <code class="font-mono">%s</code><p class="ml-16 text-sm text-slate-600">%s</p></li>`,
				templ.EscapeString(methodBadge(e.Method)), templ.EscapeString(e.Method),
				templ.EscapeString(e.Path), templ.EscapeString(e.Description))
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></body></html>`)
		return err
	})
}
