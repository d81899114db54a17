package main

import (
    "log"
    "os"

    "github.com/gin-gonic/gin"

    "github.com/cristianadrielbraun/qrtoolkit/internal/config"
    "github.com/cristianadrielbraun/qrtoolkit/internal/handlers"
    "github.com/cristianadrielbraun/qrtoolkit/web/pages"
)

func main() {
    cfg, err := config.FromEnv(os.Environ())
    if err != nil {
        log.Fatal(err)
    }
    presets, err := config.LoadPresets(cfg.PresetDir)
    if err != nil {
        log.Fatal(err)
    }

    gin.SetMode(cfg.GinMode)
    r := gin.New()
    r.Use(gin.Logger())
    r.Use(gin.Recovery())

    // API routes
    h := handlers.New(cfg, presets)
    h.Register(r.Group("/api"))

    // Pages
    r.GET("/", func(c *gin.Context) {
        if err := pages.HomePage(handlers.Endpoints()).Render(c.Request.Context(), c.Writer); err != nil {
            c.String(500, err.Error())
        }
    })
    r.GET("/sitemap.xml", h.SitemapXML)

    log.Printf("qrtoolkit listening on %s (max render cost %d, %d presets)", cfg.Addr(), cfg.MaxRenders, len(presets.Names()))
    if err := r.Run(cfg.Addr()); err != nil {
        log.Fatal(err)
    }
}
