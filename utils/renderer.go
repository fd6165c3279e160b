package utils

import (
	"context"
	"fmt"

	"lms/config"
	"lms/services"

	"github.com/go-resty/resty/v2"
)

// PDFRenderer calls the external document renderer service, which takes
// structured certificate data and returns a PDF buffer.
type PDFRenderer struct {
	client *resty.Client
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{client: resty.New()}
}

// Render implements services.CertificateRenderer
func (r *PDFRenderer) Render(ctx context.Context, data services.CertificateData) ([]byte, error) {
	if config.AppConfig.RendererURL == "" {
		return nil, fmt.Errorf("RENDERER_URL not configured")
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/pdf").
		SetBody(data).
		Post(config.AppConfig.RendererURL + "/render")
	if err != nil {
		return nil, fmt.Errorf("renderer request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("renderer error: %s", resp.String())
	}

	return resp.Body(), nil
}
