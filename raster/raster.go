// Package raster renders SVG markup to PNG through a headless Chromium,
// serving the rasterization fallback tier of filter conversion.
package raster

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures the renderer.
type Options struct {
	// RemoteURL connects to an existing Chrome DevTools endpoint instead
	// of launching a local browser.
	RemoteURL string

	// Timeout bounds one render (default 15s).
	Timeout time.Duration

	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Renderer screenshots SVG documents. Safe for sequential use; one renderer
// per conversion worker.
type Renderer struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	opts    Options
}

// New launches (or attaches to) a browser.
func New(opts Options) (*Renderer, error) {
	opts.defaults()

	r := &Renderer{opts: opts}
	wsURL := opts.RemoteURL
	if wsURL == "" {
		l := launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("raster: launch: %w", err)
		}
		wsURL = u
		r.lnch = l
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("raster: connect: %w", err)
	}
	r.browser = b
	return r, nil
}

// Render loads the SVG as a data URL and screenshots a width×height
// viewport. Implements filters.Rasterizer.
func (r *Renderer) Render(ctx context.Context, svg string, width, height int) ([]byte, error) {
	renderCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("raster: create page: %w", err)
	}
	defer page.Close()
	page = page.Context(renderCtx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("raster: viewport: %w", err)
	}

	if err := page.Navigate(DataURL(svg)); err != nil {
		return nil, fmt.Errorf("raster: navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("raster: wait load: %w", err)
	}

	png, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: screenshot: %w", err)
	}
	r.opts.Logger.Debug("rasterized svg", "bytes", len(png), "width", width, "height", height)
	return png, nil
}

// DataURL encodes SVG markup as a base64 data URL.
func DataURL(svg string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

// Close shuts the browser down.
func (r *Renderer) Close() error {
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			return fmt.Errorf("raster: close browser: %w", err)
		}
	}
	if r.lnch != nil {
		r.lnch.Cleanup()
	}
	return nil
}
