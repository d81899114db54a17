package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/cristianadrielbraun/qrtoolkit/web/components"
)

// toastVariant maps form values to toast variants.
func toastVariant(variant string) components.Variant {
    switch variant {
    case "error", "destructive":
        return components.VariantError
    case "warning":
        return components.VariantWarning
    case "info":
        return components.VariantInfo
    default:
        return components.VariantSuccess
    }
}

func renderToast(c *gin.Context, p components.ToastProps) {
    c.Header("Content-Type", "text/html; charset=utf-8")
    c.Status(http.StatusOK)
    _ = components.Toast(p).Render(c.Request.Context(), c.Writer)
}

// GenericToast returns a Toast component rendered as HTML for HTMX swaps.
func (h *Handler) GenericToast(c *gin.Context) {
    renderToast(c, components.ToastProps{
        Title:       c.PostForm("title"),
        Description: c.PostForm("description"),
        Variant:     toastVariant(c.PostForm("variant")),
        Duration:    2000,
        Dismissible: c.PostForm("dismissible") == "on",
    })
}
