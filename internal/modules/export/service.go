package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"netrates/internal/pkg/metrics"
)

// File is a rendered export ready to be sent as a download or attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Service struct {
	drafts     PriceListSource
	headersDir string
}

func NewService(drafts PriceListSource, headersDir string) *Service {
	return &Service{drafts: drafts, headersDir: headersDir}
}

func (s *Service) Excel(ctx context.Context, publicID string) (*File, error) {
	view, err := s.drafts.Get(ctx, publicID)
	if err != nil {
		return nil, err
	}

	buf, err := buildWorkbook(view)
	if err != nil {
		return nil, err
	}

	metrics.Exports.WithLabelValues("excel").Inc()
	return &File{
		Name:        exportName(view.PriceList.CustomerName, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func (s *Service) CSV(ctx context.Context, publicID string) (*File, error) {
	view, err := s.drafts.Get(ctx, publicID)
	if err != nil {
		return nil, err
	}

	buf, err := buildCSV(view)
	if err != nil {
		return nil, err
	}

	metrics.Exports.WithLabelValues("csv").Inc()
	return &File{
		Name:        exportName(view.PriceList.CustomerName, "csv"),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

// JSON exports the draft's save document, restorable through the price list
// restore endpoint.
func (s *Service) JSON(ctx context.Context, publicID string) (*File, error) {
	snap, err := s.drafts.Snapshot(ctx, publicID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}

	metrics.Exports.WithLabelValues("json").Inc()
	return &File{
		Name:        exportName(snap.CustomerName, "json"),
		ContentType: "application/json",
		Data:        data,
	}, nil
}

// PDF needs both a customer name and a chosen header template; the other
// formats work on an anonymous draft.
func (s *Service) PDF(ctx context.Context, publicID string) (*File, error) {
	view, err := s.drafts.Get(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(view.PriceList.CustomerName) == "" {
		return nil, ErrMissingCustomer
	}
	if view.PriceList.HeaderTemplate == "" {
		return nil, ErrMissingHeader
	}

	headerPath, err := s.headerPath(view.PriceList.HeaderTemplate)
	if err != nil {
		return nil, err
	}

	buf, err := buildPDF(view, headerPath)
	if err != nil {
		return nil, err
	}

	metrics.Exports.WithLabelValues("pdf").Inc()
	return &File{
		Name:        exportName(view.PriceList.CustomerName, "pdf"),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

// ListHeaders returns the header template names available for the PDF export.
func (s *Service) ListHeaders() ([]string, error) {
	entries, err := os.ReadDir(s.headersDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// SaveHeader stores an uploaded header template PDF under the headers
// directory. The name is flattened to a safe file name.
func (s *Service) SaveHeader(name string, data []byte) error {
	safe := sanitizeName(name)
	if safe == "" {
		return ErrValidation
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return ErrBadHeaderFile
	}

	if err := os.MkdirAll(s.headersDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.headersDir, safe+".pdf"), data, 0o644)
}

func (s *Service) headerPath(name string) (string, error) {
	safe := sanitizeName(name)
	if safe == "" {
		return "", ErrHeaderNotFound
	}
	path := filepath.Join(s.headersDir, safe+".pdf")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrHeaderNotFound
		}
		return "", err
	}
	return path, nil
}

// sanitizeName keeps letters, digits, dashes, underscores and spaces so
// template names can never escape the headers directory.
func sanitizeName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".pdf")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func exportName(customer, ext string) string {
	slug := strings.ReplaceAll(sanitizeName(customer), " ", "_")
	if slug == "" {
		slug = "draft"
	}
	return fmt.Sprintf("price_list_%s_%s.%s", slug, time.Now().Format("2006-01-02"), ext)
}
