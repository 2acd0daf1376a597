// Package alerts writes alert artifacts for the alerting responder.
package alerts

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

var alertTemplate = template.Must(template.New("alert").Parse(`<html>
  <head><title>Alert for org {{.TenantID}}</title></head>
  <body>
    <h2>Alert Summary</h2>
    <p>{{.Summary}}</p>
    <hr>
  </body>
</html>
`))

// Writer renders one HTML artifact per alert into a flat directory.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter creates an alert writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:    dir,
		logger: logger.Get(),
	}
}

// Write renders the alert and returns the artifact path. The summary is
// template-escaped; the tenant id comes from the security context, never
// from the request text.
func (w *Writer) Write(tenantID, summary string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create alerts dir: %w", err)
	}

	alertID := uuid.NewString()
	path := filepath.Join(w.dir, fmt.Sprintf("alert_%s_%s.html", tenantID, alertID))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create alert file: %w", err)
	}
	defer f.Close()

	data := struct {
		TenantID string
		Summary  string
	}{TenantID: tenantID, Summary: summary}

	if err := alertTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render alert: %w", err)
	}

	w.logger.Info("Alert artifact written",
		zap.String("tenant_id", tenantID),
		zap.String("path", path),
	)
	return path, nil
}
