// Package engine implements the interaction layer over a live rod page:
// bounded polling waits, locator resolution, and the click/type/read actions
// every page object builds on. Element handles are never cached across
// actions; each action re-resolves its target so it cannot act on a stale
// node after a re-render.
package engine

import (
	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/v0xg/railcheck/internal/verify"
)

// Engine drives one browser page. It does not own the page lifecycle; the
// browser session provider does.
type Engine struct {
	page   *rod.Page
	log    *zap.Logger
	ledger *verify.Ledger
}

// New creates an engine bound to a page, a logger, and the run ledger.
func New(page *rod.Page, log *zap.Logger, ledger *verify.Ledger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{page: page, log: log, ledger: ledger}
}

// Attach rebinds the engine to another page. Used after the site opens a new
// window and the workflow continues there.
func (e *Engine) Attach(page *rod.Page) {
	e.page = page
}

// Page returns the underlying rod page.
func (e *Engine) Page() *rod.Page {
	return e.page
}

// Ledger returns the run ledger the engine reports to.
func (e *Engine) Ledger() *verify.Ledger {
	return e.ledger
}
