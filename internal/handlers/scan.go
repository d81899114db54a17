package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrtoolkit/internal/scan"
	"github.com/cristianadrielbraun/qrtoolkit/web/components"
)

type scanRequest struct {
	Image   string        `json:"image" binding:"required"`
	Options *scan.Options `json:"options,omitempty"`
}

// ScanHandler decodes the QR code in a data URL image. Not finding a code
// is still a 200 with the reason in "error". HTMX requests get a toast.
func (h *Handler) ScanHandler(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid scan request: %v", err)})
		return
	}
	opts := scan.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	r := scan.DecodeDataURL(req.Image, opts)
	if r.OK() {
		fmt.Printf("[scan] decoded %d chars rotation=%d binarizer=%s\n", len(r.Result.Text), r.Result.Rotation, r.Result.Binarizer)
	} else {
		fmt.Printf("[scan] no code: %v\n", r.Err)
	}

	if c.GetHeader("HX-Request") == "true" {
		p := components.ToastProps{Title: "QR code found", Variant: components.VariantSuccess, Duration: 4000, Dismissible: true}
		if r.OK() {
			p.Description = r.Result.Text
		} else {
			p.Title, p.Description, p.Variant = "No QR code found", r.Err.Error(), components.VariantWarning
		}
		renderToast(c, p)
		return
	}

	out := gin.H{"text": "", "error": ""}
	if r.OK() {
		out["text"] = r.Result.Text
		out["rotation"] = r.Result.Rotation
		out["binarizer"] = r.Result.Binarizer
		out["points"] = r.Result.Points
	} else {
		out["error"] = r.Err.Error()
	}
	c.JSON(http.StatusOK, out)
}
