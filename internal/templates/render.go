// Package templates loads and renders the html/template set.
package templates

import (
	"bufio"
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"sync"

	"walletdash/internal/log"
)

// templateDirs are scanned in order for *.html files
var templateDirs = []string{"layouts", "pages", "partials", "components"}

var (
	lineNumberRe   = regexp.MustCompile(`:(\d+):`)
	templateCallRe = regexp.MustCompile(`\{\{-?\s*template\s+"([^"]+)"`)
)

// Renderer handles template rendering
type Renderer struct {
	fsys   fs.FS
	debug  bool
	logger *log.Logger

	mu        sync.RWMutex
	templates *template.Template
}

// New parses every template in fsys. In debug mode templates are
// re-parsed on each render, which is useful with an os.DirFS.
func New(fsys fs.FS, debug bool, logger *log.Logger) (*Renderer, error) {
	if logger == nil {
		logger = log.Discard()
	}
	r := &Renderer{
		fsys:   fsys,
		debug:  debug,
		logger: logger.WithComponent("templates"),
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}
	return r, nil
}

// FuncMap returns the template function map
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"safeHTML": safeHTML,
	}
}

// loadTemplates parses all templates with strict validation
func (r *Renderer) loadTemplates() error {
	tmpl := template.New("").Funcs(FuncMap())

	var files []string
	for _, dir := range templateDirs {
		matches, err := fs.Glob(r.fsys, path.Join(dir, "*.html"))
		if err != nil {
			return fmt.Errorf("error globbing %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no template files found")
	}

	contents := make(map[string]string, len(files))
	var parseErrors []string
	for _, file := range files {
		content, err := fs.ReadFile(r.fsys, file)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("  %s: failed to read: %v", file, err))
			continue
		}
		contents[file] = string(content)

		if _, err := tmpl.New(path.Base(file)).Parse(string(content)); err != nil {
			parseErrors = append(parseErrors, formatTemplateError(file, string(content), err))
		}
	}

	if len(parseErrors) > 0 {
		for _, e := range parseErrors {
			r.logger.Error("Template parse error", "detail", e)
		}
		return fmt.Errorf("template parsing failed with %d error(s)", len(parseErrors))
	}

	if err := r.validateTemplateReferences(tmpl, contents); err != nil {
		return err
	}

	r.mu.Lock()
	r.templates = tmpl
	r.mu.Unlock()

	r.logger.Debug("Templates loaded", "files", len(files))
	return nil
}

// formatTemplateError formats a template error with file context
func formatTemplateError(file, content string, err error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  File: %s\n", file)

	errStr := err.Error()
	lineNum := extractLineNumber(errStr)
	if lineNum <= 0 {
		fmt.Fprintf(&sb, "  Error: %s\n", errStr)
		return sb.String()
	}

	fmt.Fprintf(&sb, "  Line: %d\n", lineNum)
	fmt.Fprintf(&sb, "  Error: %s\n", errStr)
	sb.WriteString("  Context:\n")

	lines := strings.Split(content, "\n")
	start := max(lineNum-3, 0)
	end := min(lineNum+2, len(lines))
	for i := start; i < end; i++ {
		marker := "   "
		if i+1 == lineNum {
			marker = ">>>"
		}
		fmt.Fprintf(&sb, "    %s %4d | %s\n", marker, i+1, lines[i])
	}
	return sb.String()
}

// extractLineNumber finds the ":LINE:" part of a template error
func extractLineNumber(errStr string) int {
	matches := lineNumberRe.FindStringSubmatch(errStr)
	if len(matches) < 2 {
		return 0
	}
	var lineNum int
	fmt.Sscanf(matches[1], "%d", &lineNum)
	return lineNum
}

// validateTemplateReferences checks that every {{template "name"}} call
// names a defined template
func (r *Renderer) validateTemplateReferences(tmpl *template.Template, contents map[string]string) error {
	defined := make(map[string]bool)
	for _, t := range tmpl.Templates() {
		if t.Name() != "" {
			defined[t.Name()] = true
		}
	}

	var refErrors []string
	for file, content := range contents {
		scanner := bufio.NewScanner(strings.NewReader(content))
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			for _, match := range templateCallRe.FindAllStringSubmatch(line, -1) {
				if !defined[match[1]] {
					refErrors = append(refErrors, fmt.Sprintf("%s:%d: undefined template %q", file, lineNum, match[1]))
				}
			}
		}
	}

	if len(refErrors) > 0 {
		for _, e := range refErrors {
			r.logger.Error("Undefined template reference", "detail", e)
		}
		return fmt.Errorf("found %d undefined template reference(s)", len(refErrors))
	}
	return nil
}

// Reload re-parses the templates
func (r *Renderer) Reload() error {
	return r.loadTemplates()
}

// Has reports whether a template with the given name is defined
func (r *Renderer) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates.Lookup(name) != nil
}

// Render renders a full page. Output is buffered so a failing template
// produces a clean 500 instead of a truncated page.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	return r.render(w, name, data)
}

// RenderPartial renders a fragment for in-page updates
func (r *Renderer) RenderPartial(w http.ResponseWriter, name string, data any) error {
	return r.render(w, name, data)
}

func (r *Renderer) render(w http.ResponseWriter, name string, data any) error {
	if r.debug {
		if err := r.loadTemplates(); err != nil {
			r.logger.Error("Error reloading templates", "error", err)
		}
	}

	var buf bytes.Buffer
	if err := r.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("Error rendering template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// RenderToString renders a template to a string
func (r *Renderer) RenderToString(name string, data any) (string, error) {
	var buf strings.Builder
	if err := r.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExecuteTemplate executes a template to a writer
func (r *Renderer) ExecuteTemplate(w io.Writer, name string, data any) error {
	r.mu.RLock()
	tmpl := r.templates
	r.mu.RUnlock()
	return tmpl.ExecuteTemplate(w, name, data)
}

// safeHTML marks trusted markup, such as a server-rendered SVG chart
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}
