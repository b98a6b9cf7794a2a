// Package browser provisions the rod browser session the workflow runs in.
// One session per run; the core components receive a live page and never
// launch or configure browsers themselves.
package browser

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Options configures the session.
type Options struct {
	Browser  string // "chrome" (default) or "edge"
	Headless bool
	Width    int
	Height   int
}

// Browser wraps the rod browser and the active page.
type Browser struct {
	opts    Options
	browser *rod.Browser
	page    *rod.Page
	log     *zap.Logger
}

// edge binary names probed when the edge browser is requested.
var edgeBins = []string{"microsoft-edge", "microsoft-edge-stable", "msedge"}

// Launch starts a browser of the configured kind and connects to it.
func Launch(opts Options, log *zap.Logger) (*Browser, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 720
	}

	bin, err := resolveBin(opts.Browser)
	if err != nil {
		return nil, err
	}

	l := launcher.New().
		Bin(bin).
		Headless(opts.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-gpu")

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching %s: %w", opts.Browser, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	log.Info("browser session started", zap.String("browser", opts.Browser), zap.Bool("headless", opts.Headless))
	return &Browser{opts: opts, browser: b, log: log}, nil
}

// resolveBin finds the executable for the requested browser kind.
func resolveBin(kind string) (string, error) {
	switch kind {
	case "", "chrome", "chromium":
		path, has := launcher.LookPath()
		if !has {
			return "", fmt.Errorf("no chrome/chromium binary found")
		}
		return path, nil
	case "edge":
		for _, name := range edgeBins {
			if path, err := exec.LookPath(name); err == nil {
				return path, nil
			}
		}
		return "", fmt.Errorf("no edge binary found")
	default:
		return "", fmt.Errorf("unsupported browser: %q", kind)
	}
}

// Open navigates a fresh page to url, applies the viewport, and waits for
// the initial load.
func (b *Browser) Open(url string) (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", url, err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.opts.Width,
		Height:            b.opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("setting viewport: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for load of %s: %w", url, err)
	}
	b.page = page
	b.log.Info("navigated", zap.String("url", url))
	return page, nil
}

// Page returns the active page.
func (b *Browser) Page() *rod.Page {
	return b.page
}

// WaitNewPage waits for the site to open a window besides current and
// returns it loaded. Used when the locale switch reopens the site in a new
// tab; the workflow continues there.
func (b *Browser) WaitNewPage(current *rod.Page, timeout time.Duration) (*rod.Page, error) {
	deadline := time.Now().Add(timeout)
	for {
		pages, err := b.browser.Pages()
		if err != nil {
			return nil, fmt.Errorf("listing pages: %w", err)
		}
		for _, p := range pages {
			if p.TargetID != current.TargetID {
				if err := p.WaitLoad(); err != nil {
					return nil, fmt.Errorf("waiting for new window: %w", err)
				}
				b.page = p
				b.log.Info("switched to new window")
				return p, nil
			}
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("no new window appeared within %s", timeout)
		}
		time.Sleep(250 * time.Millisecond)
	}
}

// Close tears down the page and the browser process.
func (b *Browser) Close() {
	if b.page != nil {
		_ = b.page.Close()
	}
	if b.browser != nil {
		_ = b.browser.Close()
	}
}
