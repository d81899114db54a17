package handlers

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrtoolkit/internal/diff"
	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
	"github.com/cristianadrielbraun/qrtoolkit/internal/matrix"
	"github.com/cristianadrielbraun/qrtoolkit/internal/scan"
)

// compareRequest is the body of POST /api/compare. The reference is either
// an image segmented on Config.GridSize cells, or a QR matrix encoded from
// Text with Margin modules around it.
type compareRequest struct {
	Image     string       `json:"image" binding:"required"`
	Reference string       `json:"reference,omitempty"`
	Text      string       `json:"text,omitempty"`
	ECC       string       `json:"ecc,omitempty"`
	Margin    *geom.Margin `json:"margin,omitempty"`
	Config    diff.Config  `json:"config"`
}

// reference builds the expected segments for r.
func (r *compareRequest) reference() ([]diff.Segment, error) {
	if r.Reference != "" {
		if r.Config.GridSize <= 0 {
			return nil, fmt.Errorf("%w: a reference image needs config.gridSize", diff.ErrGridSize)
		}
		return diff.SegmentDataURL(r.Reference, r.Config.GridSize)
	}
	if r.Text == "" {
		return nil, fmt.Errorf("%w: either reference or text is required", diff.ErrInvalidConfig)
	}
	req := matrix.DefaultRequest(r.Text)
	if r.ECC != "" {
		level, err := matrix.ParseLevel(r.ECC)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", matrix.ErrInvalidRequest, err)
		}
		req.Level = level
	}
	m, err := matrix.Encode(req)
	if err != nil {
		return nil, err
	}
	margin := r.Config.GridMarginSize
	if r.Margin != nil {
		margin = *r.Margin
	}
	return diff.ReferenceSegments(m, geom.ResolveMargin(margin))
}

// CompareHandler checks a captured image against its expected modules. The
// download query parameter switches the response from the JSON diff to an
// image: mask, correction, grid or blink.
func (h *Handler) CompareHandler(c *gin.Context) {
	req := compareRequest{Config: diff.DefaultConfig()}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid compare request: %v", err)})
		return
	}
	download := c.Query("download")
	switch download {
	case "", diff.KindMask, diff.KindCorrection, "grid", "blink":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "download must be mask, correction, grid or blink"})
		return
	}

	start := time.Now()
	captured, err := imageio.DecodeDataURL(req.Image)
	if err != nil {
		abortWith(c, err)
		return
	}
	ref, err := req.reference()
	if err != nil {
		abortWith(c, err)
		return
	}
	d, err := diff.Compare(captured, ref, req.Config)
	if err != nil {
		abortWith(c, err)
		return
	}
	fmt.Printf("[compare] grid=%d mismatches=%d light=%.1f dark=%.1f in %s\n",
		d.GridSize, d.MismatchCount, d.LightLuminance, d.DarkLuminance, time.Since(start))

	switch download {
	case "":
		c.JSON(http.StatusOK, d)
	case diff.KindMask, diff.KindCorrection:
		overlay, err := diff.GenerateMask(d, req.Config, download)
		if err != nil {
			abortWith(c, err)
			return
		}
		sendPNG(c, overlay)
	case "grid":
		overlay, err := diff.GridOverlay(imageio.Adjust(captured, req.Config.Adjustments), d, req.Config)
		if err != nil {
			abortWith(c, err)
			return
		}
		sendPNG(c, overlay)
	case "blink":
		overlay, err := diff.GenerateMask(d, req.Config, diff.KindCorrection)
		if err != nil {
			abortWith(c, err)
			return
		}
		corrected := diff.ApplyCorrection(captured, overlay)
		var buf bytes.Buffer
		if err := diff.EncodeBlink(&buf, imageio.ToRGBA(captured), corrected, 600); err != nil {
			abortWith(c, err)
			return
		}
		c.Data(http.StatusOK, "image/apng", buf.Bytes())
	}
}

func sendPNG(c *gin.Context, img image.Image) {
	b, err := imageio.PNGBytes(img)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// VerifyHandler renders the JSON state in the body and checks the result
// two ways: it must scan back to its text, and its cells must match the
// module matrix. Perspective and scale transforms move cells off the grid,
// so only the scan is meaningful for them.
func (h *Handler) VerifyHandler(c *gin.Context) {
	s, ok := h.baseState(c)
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid render state: %v", err)})
		return
	}
	release, err := h.acquire(c.Request.Context(), s.Cost()+1)
	if err != nil {
		abortWith(c, err)
		return
	}
	defer release()

	res, err := h.renderer.Render(c.Request.Context(), s)
	if err != nil {
		abortWith(c, err)
		return
	}
	want, _ := s.Request()
	out := gin.H{"text": want.Text, "version": res.Matrix.Version()}

	sr := scan.Decode(res.Image, scan.DefaultOptions())
	out["scanned"] = sr.OK() && sr.Result.Text == want.Text
	if sr.OK() {
		out["scanText"] = sr.Result.Text
	} else {
		out["scanError"] = sr.Err.Error()
	}

	ref, err := diff.ReferenceSegments(res.Matrix, geom.ResolveMargin(s.Margin))
	if err == nil {
		cfg := diff.DefaultConfig()
		cfg.GridMarginSize = s.Margin
		if d, err := diff.Compare(res.Image, ref, cfg); err == nil {
			out["mismatchCount"] = d.MismatchCount
		}
	}
	fmt.Printf("[compare] verify text=%q scanned=%v\n", want.Text, out["scanned"])
	c.JSON(http.StatusOK, out)
}
