package service

import (
	"context"

	"github.com/khoahotran/cv-studio/internal/application/disclosure"
)

// Renderer turns an already redacted CV into a document. It never sees master
// or selection rows.
type Renderer interface {
	RenderHTML(ctx context.Context, cv *disclosure.PublicCV) ([]byte, error)
	RenderPDF(ctx context.Context, cv *disclosure.PublicCV) ([]byte, error)
}
