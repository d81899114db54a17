package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

var variantClasses = map[Variant]string{
	VariantSuccess: "border-green-500 bg-green-50 text-green-900",
	VariantError:   "border-red-500 bg-red-50 text-red-900",
	VariantWarning: "border-amber-500 bg-amber-50 text-amber-900",
	VariantInfo:    "border-sky-500 bg-sky-50 text-sky-900",
}

// Toast renders a small notification fragment for HTMX swaps.
func Toast(p ToastProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v, ok := variantClasses[p.Variant]
		if !ok {
			v = variantClasses[VariantSuccess]
		}
		class := twmerge.Merge("fixed bottom-4 right-4 z-50 w-80 rounded-md border p-4 shadow-lg", v, p.Class)
		if _, err := fmt.Fprintf(w, `<div class="%s" role="status" data-variant="%s"`,
			templ.EscapeString(class), templ.EscapeString(string(p.Variant))); err != nil {
			return err
		}
		if p.Duration > 0 {
			if _, err := fmt.Fprintf(w, ` data-duration="%d"`, p.Duration); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `><p class="font-semibold">%s</p>`, templ.EscapeString(p.Title)); err != nil {
			return err
		}
		if p.Description != "" {
			if _, err := fmt.Fprintf(w, `<p class="text-sm">%s</p>`, templ.EscapeString(p.Description)); err != nil {
				return err
			}
		}
		if p.Dismissible {
			if _, err := io.WriteString(w, `<button type="button" class="absolute right-2 top-2" onclick="this.parentElement.remove()">&times;</button>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}
