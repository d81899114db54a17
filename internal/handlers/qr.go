package handlers

import (
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrtoolkit/internal/classic"
	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
	"github.com/cristianadrielbraun/qrtoolkit/internal/render"
)

// normalizeHTTPURL validates and normalizes a URL string for QR generation.
// It ensures an http/https scheme, a non-empty hostname, and returns a cleaned absolute URL.
func normalizeHTTPURL(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("URL parameter is required")
	}
	// If missing scheme, default to https
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.ParseRequestURI(v)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("only http and https URLs are supported")
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL must include a valid host")
	}
	if len(v) > 4096 {
		return "", fmt.Errorf("URL is too long")
	}
	return u.String(), nil
}

// baseState returns the preset named by the preset query parameter, or the
// default state.
func (h *Handler) baseState(c *gin.Context) (render.State, bool) {
	name := c.DefaultQuery("preset", "default")
	s, ok := h.presets.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown preset %q", name)})
	}
	return s, ok
}

// QRCodeHandler renders a stylised QR code from query parameters. Parameter
// names match the JSON field names of the render state.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	s, ok := h.baseState(c)
	if !ok {
		return
	}
	q := queryReader{c: c}
	q.str("text", &s.Text)
	q.str("ecc", &s.ECC)
	q.str("encoder", &s.Encoder)
	q.margin("margin", &s.Margin)
	q.integer("scale", &s.Scale)
	q.integer64("seed", &s.Seed)
	q.color("lightColor", &s.LightColor)
	q.color("darkColor", &s.DarkColor)
	q.integer("maskPattern", &s.MaskPattern)
	q.flag("boostECC", &s.BoostECC)
	q.integer("minVersion", &s.MinVersion)
	q.integer("maxVersion", &s.MaxVersion)
	q.str("pixelStyle", &s.PixelStyle)
	q.str("markerStyle", &s.MarkerStyle)
	q.str("markerShape", &s.MarkerShape)
	q.str("markerInnerShape", &s.MarkerInnerShape)
	q.str("markerSub", &s.MarkerSub)
	q.flag("marginNoise", &s.MarginNoise)
	q.number("marginNoiseRate", &s.MarginNoiseRate)
	q.str("marginNoiseSpace", &s.MarginNoiseSpace)
	q.opacity("marginNoiseOpacity", &s.MarginNoiseOpacity)
	q.flag("disconnectMargin", &s.DisconnectMargin)
	q.str("renderPointsType", &s.RenderPointsType)
	q.flag("invert", &s.Invert)
	q.integer("rotate", &s.Rotate)
	q.str("effect", &s.Effect)
	q.str("effectTiming", &s.EffectTiming)
	q.number("effectCrystalizeRadius", &s.EffectCrystalizeRadius)
	q.number("effectLiquidifyDistortRadius", &s.EffectLiquidifyDistortRadius)
	q.integer("effectLiquidifyRadius", &s.EffectLiquidifyRadius)
	q.number("effectLiquidifyThreshold", &s.EffectLiquidifyThreshold)
	q.number("transformPerspectiveX", &s.TransformPerspectiveX)
	q.number("transformPerspectiveY", &s.TransformPerspectiveY)
	q.number("transformScale", &s.TransformScale)
	if q.err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": q.err.Error()})
		return
	}
	h.respondRender(c, s)
}

// RenderJSONHandler renders the JSON state in the request body, decoded over
// the selected preset.
func (h *Handler) RenderJSONHandler(c *gin.Context) {
	s, ok := h.baseState(c)
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid render state: %v", err)})
		return
	}
	h.respondRender(c, s)
}

func (h *Handler) respondRender(c *gin.Context, s render.State) {
	format := strings.ToLower(c.DefaultQuery("format", "png"))
	if format != "png" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be png or json"})
		return
	}

	fmt.Printf("[QR] request start: text=%q style=%s marker=%s effect=%s cost=%d format=%s\n",
		s.Text, s.PixelStyle, s.MarkerShape, s.Effect, s.Cost(), format)

	release, err := h.acquire(c.Request.Context(), s.Cost())
	if err != nil {
		abortWith(c, err)
		return
	}
	start := time.Now()
	res, err := h.renderer.Render(c.Request.Context(), s)
	release()
	if err != nil {
		fmt.Printf("[QR] render failed: %v\n", err)
		abortWith(c, err)
		return
	}
	m := res.Matrix
	c.Header("X-QR-Debug", fmt.Sprintf("version=%d;level=%s;mask=%d;size=%dx%d", m.Version(), m.Level(), m.Mask(), res.Width, res.Height))

	if format == "json" {
		dataURL, err := res.DataURL()
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"image":   dataURL,
			"width":   res.Width,
			"height":  res.Height,
			"version": m.Version(),
			"level":   m.Level().String(),
			"mask":    m.Mask(),
			"modules": m.Size(),
			"aspect":  geom.AspectRatio(res.Width, res.Height),
		})
		fmt.Printf("[QR] sent JSON %dx%d in %s\n", res.Width, res.Height, time.Since(start))
		return
	}

	png, err := res.PNG()
	if err != nil {
		abortWith(c, err)
		return
	}
	if c.Query("download") != "" {
		c.Header("Content-Disposition", "attachment; filename="+generateUniqueFilename("qr", ".png"))
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
	fmt.Printf("[QR] sent PNG %dx%d in %s\n", res.Width, res.Height, time.Since(start))
}

// ClassicHandler generates plain QR codes for URLs with the classic writer:
// flat or gradient colours, module shapes, padding and frames.
func (h *Handler) ClassicHandler(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL parameter is required"})
		return
	}
	normalizedURL, err := normalizeHTTPURL(rawURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Parse format parameter (default to PNG)
	format := strings.ToLower(c.DefaultQuery("format", "png"))
	if format == "jpeg" {
		format = "jpg"
	}
	if format != "png" && format != "jpg" {
		format = "png"
	}

	o := classic.DefaultOptions(normalizedURL)
	o.Background = parseColorParam(c.Query("bg"), color.RGBA{255, 255, 255, 255})
	o.Shape = c.DefaultQuery("qrShape", classic.ShapeRectangle)

	colorMode := c.DefaultQuery("colorMode", "flat")
	if colorMode == "gradient" {
		o.Gradient = []color.RGBA{
			parseColorParam(c.Query("gradientStart"), color.RGBA{0, 0, 0, 255}),
			parseColorParam(c.Query("gradientMiddle"), color.RGBA{128, 128, 128, 255}),
			parseColorParam(c.Query("gradientEnd"), color.RGBA{255, 0, 0, 255}),
		}
		o.Foreground = o.Gradient[0]
	} else {
		o.Foreground = parseColorParam(c.Query("fg"), color.RGBA{0, 0, 0, 255})
	}

	// Border colour defaults to the foreground (or gradient start).
	o.FrameColor = parseColorParam(c.Query("borderColor"), o.Foreground)
	switch c.DefaultQuery("cornerStyle", "none") {
	case "none":
		o.Frame = classic.FrameNone
	case "rounded":
		o.Frame = classic.FrameRounded
		// Rounded frames start thicker so they stay visible after the inner carve.
		o.FrameWidthPercent = 6
	default:
		o.Frame = classic.FrameSimple
	}

	size := c.DefaultQuery("size", "preview") // "preview" or "download"
	if size == "download" {
		o.ModuleSize = 120
		o.Size = 2000
	} else if ps := c.Query("previewSize"); ps != "" {
		if target, err := strconv.Atoi(ps); err == nil && target > 0 && target <= 4096 {
			o.Size = target
		}
	}

	fmt.Printf("[QR] classic request: url=%q format=%s size=%s colorMode=%s qrShape=%s frame=%s\n",
		normalizedURL, format, size, colorMode, o.Shape, o.Frame)

	img, err := classic.Generate(o)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.Header("X-QR-Debug", fmt.Sprintf("format=%s;size=%s;shape=%s;colorMode=%s", format, size, o.Shape, colorMode))
	c.Header("Cache-Control", "public, max-age=3600") // Cache for 1 hour

	if format == "jpg" {
		// Composite onto an opaque background, JPEG has no alpha.
		bg := color.RGBA{o.Background.R, o.Background.G, o.Background.B, 255}
		if o.Background.A == 0 {
			bg = color.RGBA{255, 255, 255, 255}
		}
		out := image.NewRGBA(img.Bounds())
		draw.Draw(out, out.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
		draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)

		c.Header("Content-Type", "image/jpeg")
		if err := jpeg.Encode(c.Writer, out, &jpeg.Options{Quality: 92}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to encode JPEG: %v", err)})
			return
		}
		fmt.Printf("[QR] sent JPG size=%s shape=%s\n", size, o.Shape)
		return
	}

	png, err := imageio.PNGBytes(img)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
	fmt.Printf("[QR] sent PNG size=%s shape=%s\n", size, o.Shape)
}

func parseColorParam(param string, defaultColor color.RGBA) color.RGBA {
	if param == "" {
		return defaultColor
	}

	// Handle transparent background
	if strings.ToLower(param) == "transparent" {
		return color.RGBA{0, 0, 0, 0} // Fully transparent
	}

	// Remove # if present
	param = strings.TrimPrefix(param, "#")

	// Ensure it's 6 characters
	if len(param) != 6 {
		return defaultColor
	}

	// Parse hex values
	r, err1 := strconv.ParseUint(param[0:2], 16, 8)
	g, err2 := strconv.ParseUint(param[2:4], 16, 8)
	b, err3 := strconv.ParseUint(param[4:6], 16, 8)

	if err1 != nil || err2 != nil || err3 != nil {
		return defaultColor
	}

	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}

// hexColor formats c the way render states store colours.
func hexColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Helper function to generate unique download filenames
func generateUniqueFilename(prefix, extension string) string {
	timestamp := time.Now().UnixNano()
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("%s_%d_%x%s", prefix, timestamp, randomBytes, extension)
}

// queryReader overlays query parameters on existing values and keeps the
// first parse error.
type queryReader struct {
	c   *gin.Context
	err error
}

func (q *queryReader) raw(key string) (string, bool) {
	v, ok := q.c.GetQuery(key)
	if !ok || q.err != nil {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (q *queryReader) fail(key, v string, err error) {
	q.err = fmt.Errorf("invalid %s %q: %v", key, v, err)
}

func (q *queryReader) str(key string, dst *string) {
	if v, ok := q.raw(key); ok {
		*dst = v
	}
}

func (q *queryReader) integer(key string, dst *int) {
	if v, ok := q.raw(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			q.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (q *queryReader) integer64(key string, dst *int64) {
	if v, ok := q.raw(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			q.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (q *queryReader) number(key string, dst *float64) {
	if v, ok := q.raw(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			q.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (q *queryReader) flag(key string, dst *bool) {
	if v, ok := q.raw(key); ok {
		if v == "" || v == "on" {
			*dst = true
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			q.fail(key, v, err)
			return
		}
		*dst = b
	}
}

// color accepts what parseColorParam accepts and keeps the current value on
// anything else.
func (q *queryReader) color(key string, dst *string) {
	if v, ok := q.raw(key); ok {
		cur := color.RGBA{0, 0, 0, 255}
		if n, err := render.ParseColor(*dst); err == nil {
			cur = color.RGBA{n.R, n.G, n.B, n.A}
		}
		*dst = hexColor(parseColorParam(v, cur))
	}
}

func (q *queryReader) margin(key string, dst *geom.Margin) {
	if v, ok := q.raw(key); ok {
		m, err := geom.ParseMargin(v)
		if err != nil {
			q.fail(key, v, err)
			return
		}
		*dst = m
	}
}

// opacity accepts "0.5" or "0.2,0.8".
func (q *queryReader) opacity(key string, dst *render.Opacity) {
	v, ok := q.raw(key)
	if !ok {
		return
	}
	parts := strings.Split(v, ",")
	var vals []float64
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			q.fail(key, v, err)
			return
		}
		vals = append(vals, f)
	}
	switch len(vals) {
	case 1:
		*dst = render.FixedOpacity(vals[0])
	case 2:
		*dst = render.Opacity{Min: vals[0], Max: vals[1]}
	default:
		q.fail(key, v, fmt.Errorf("want 1 or 2 values"))
	}
}
