package web

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-numerals/pkg/service"
)

//go:embed templates/*.tpl
var templateFS embed.FS

const pageTemplate = "index.tpl"

// Views selectable with the view query parameter.
const (
	viewLogs  = "logs"
	viewData  = "data"
	viewRules = "rules"
)

func loadPage() (*pongo2.Template, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("web: templates: %w", err)
	}
	set := pongo2.NewSet("numerals", pongo2.NewFSLoader(sub))
	tpl, err := set.FromFile(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("web: load template %q: %w", pageTemplate, err)
	}
	return tpl, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sel, err := s.themes.Select(themeName, r.FormValue("theme"))
	if err != nil {
		s.internalError(w, r, "theme.select_failed", err)
		return
	}
	cfg := rendererConfig(sel)

	data := pongo2.Context{
		"title":    "Number Converter",
		"variant":  cfg.Variant,
		"variants": s.themes.Variants(),
		"style":    cssVarsStyle(cfg.CSSVars),
		"history":  s.journal != nil,
	}

	if r.Method == http.MethodPost {
		raw := r.PostFormValue("value")
		res := s.convert(ctx, raw)
		data["input"] = sanitizeText(raw)
		data["ok"] = res.OK()
		data["message"] = sanitizeText(res.Message)
	}

	switch view := strings.ToLower(r.FormValue("view")); view {
	case viewRules:
		data["view"] = view
		data["rules"] = sanitizeRules(s.svc.Rules())
	case viewLogs, viewData:
		if s.journal == nil {
			break
		}
		data["view"] = view
		if view == viewLogs {
			lines, err := s.journal.History(ctx)
			if err != nil {
				s.internalError(w, r, "history.read_failed", err)
				return
			}
			data["lines"] = sanitizeLines(lines)
		} else {
			text, err := s.journal.CountersText(ctx)
			if err != nil {
				s.internalError(w, r, "history.counters_failed", err)
				return
			}
			data["lines"] = sanitizeLines(strings.Split(text, "\n"))
		}
	}

	var buf bytes.Buffer
	if err := s.page.ExecuteWriter(data, &buf); err != nil {
		s.logger.ErrorContext(ctx, "page.render_failed", "error", err.Error())
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleClearForm(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := s.journal.Clear(r.Context()); err != nil {
		s.internalError(w, r, "history.clear_failed", err)
		return
	}
	s.logger.InfoContext(r.Context(), "history.cleared")
	http.Redirect(w, r, "/?view="+viewLogs, http.StatusSeeOther)
}

func sanitizeRules(rules []service.RuleInfo) []service.RuleInfo {
	out := make([]service.RuleInfo, len(rules))
	for i, rule := range rules {
		out[i] = service.RuleInfo{Name: sanitizeText(rule.Name), Message: sanitizeText(rule.Message)}
	}
	return out
}
