package handlers

import (
    "context"
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"
    "golang.org/x/sync/semaphore"

    "github.com/cristianadrielbraun/qrtoolkit/internal/classic"
    "github.com/cristianadrielbraun/qrtoolkit/internal/config"
    "github.com/cristianadrielbraun/qrtoolkit/internal/diff"
    "github.com/cristianadrielbraun/qrtoolkit/internal/geom"
    "github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
    "github.com/cristianadrielbraun/qrtoolkit/internal/matrix"
    "github.com/cristianadrielbraun/qrtoolkit/internal/render"
    "github.com/cristianadrielbraun/qrtoolkit/web/components"
)

// Handler holds the dependencies shared by the HTTP handlers.
type Handler struct {
    renderer *render.Renderer
    presets  *config.Presets
    // renders bounds the summed cost of renders in flight.
    renders  *semaphore.Weighted
    maxCost  int64
}

// New returns a Handler configured from cfg. Request bodies may only load
// background images from data URLs, plus http(s) when cfg allows it.
func New(cfg config.Server, presets *config.Presets) *Handler {
    loader := imageio.NewDefaultLoader()
    loader.AllowFiles = false
    loader.AllowRemote = cfg.RemoteBackgrounds
    if presets == nil {
        presets, _ = config.LoadPresets("")
    }
    maxCost := max(cfg.MaxRenders, 1)
    return &Handler{
        renderer: &render.Renderer{Loader: loader},
        presets:  presets,
        renders:  semaphore.NewWeighted(maxCost),
        maxCost:  maxCost,
    }
}

// Endpoints lists the API routes Register installs.
func Endpoints() []components.Endpoint {
    return []components.Endpoint{
        {Method: "GET", Path: "/api/qr", Description: "Render a stylised QR code from query parameters (format=png|json)."},
        {Method: "POST", Path: "/api/qr", Description: "Render the JSON render state in the body."},
        {Method: "POST", Path: "/api/verify", Description: "Render a state, scan it back and compare its cells with the module matrix."},
        {Method: "GET", Path: "/api/classic", Description: "Plain QR code for a URL with shapes, gradient and frame (png|jpg)."},
        {Method: "POST", Path: "/api/compare", Description: "Compare a captured image with its expected modules (download=mask|correction|grid|blink)."},
        {Method: "POST", Path: "/api/scan", Description: "Decode the QR code in a data URL image."},
        {Method: "GET", Path: "/api/presets", Description: "List render presets."},
        {Method: "GET", Path: "/api/presets/:name", Description: "Fetch one render preset."},
    }
}

// Register installs the API routes on api.
func (h *Handler) Register(api gin.IRoutes) {
    api.GET("/qr", h.QRCodeHandler)
    api.POST("/qr", h.RenderJSONHandler)
    api.POST("/verify", h.VerifyHandler)
    api.GET("/classic", h.ClassicHandler)
    api.POST("/compare", h.CompareHandler)
    api.POST("/scan", h.ScanHandler)
    api.GET("/presets", h.PresetsHandler)
    api.GET("/presets/:name", h.PresetHandler)
    api.POST("/htmx/toast", h.GenericToast)
}

// acquire reserves room for a render of the given cost. Costs above the
// limit take the whole semaphore.
func (h *Handler) acquire(ctx context.Context, cost int64) (func(), error) {
    n := min(max(cost, 1), h.maxCost)
    if err := h.renders.Acquire(ctx, n); err != nil {
        return nil, err
    }
    return func() { h.renders.Release(n) }, nil
}

// statusFor maps package errors to HTTP status codes.
func statusFor(err error) int {
    switch {
    case errors.Is(err, matrix.ErrDataTooLong):
        return http.StatusUnprocessableEntity
    case errors.Is(err, render.ErrInvalidConfig),
        errors.Is(err, render.ErrBackground),
        errors.Is(err, imageio.ErrDecode),
        errors.Is(err, matrix.ErrInvalidRequest),
        errors.Is(err, geom.ErrMargin),
        errors.Is(err, diff.ErrInvalidConfig),
        errors.Is(err, diff.ErrGridSize),
        errors.Is(err, classic.ErrInvalidOptions),
        errors.Is(err, config.ErrPreset):
        return http.StatusBadRequest
    case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
        return http.StatusServiceUnavailable
    }
    return http.StatusInternalServerError
}

func abortWith(c *gin.Context, err error) {
    c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// SitemapXML serves a minimal sitemap for the site.
func (h *Handler) SitemapXML(c *gin.Context) {
    c.Header("Content-Type", "application/xml; charset=utf-8")
    scheme := "https"
    host := c.Request.Host
    if xf := c.Request.Header.Get("X-Forwarded-Proto"); xf != "" {
        scheme = xf
    } else if c.Request.TLS == nil {
        scheme = "http"
    }
    base := scheme + "://" + host
    xml := "" +
        "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
        "<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
        "  <url>\n" +
        "    <loc>" + base + "/" + "</loc>\n" +
        "    <changefreq>weekly</changefreq>\n" +
        "    <priority>1.0</priority>\n" +
        "  </url>\n" +
        "</urlset>\n"
    c.String(http.StatusOK, xml)
}
