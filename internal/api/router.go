package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-equipment-analytics/docs"
	"go-equipment-analytics/internal/api/handler"
	"go-equipment-analytics/internal/auth"
	"go-equipment-analytics/pkg/router"
)

const prefix = "/api/v1"

func RegisterRoutes(r *router.Router, h *handler.Handler, tokens *auth.TokenIssuer) {
	protected := func(fn http.HandlerFunc) router.HandlerFunc {
		return router.HandlerFunc(auth.RequireAuth(tokens, fn))
	}

	r.POST(prefix+"/auth/login", h.Login)
	r.GET(prefix+"/me", protected(h.Me))

	r.GET(prefix+"/datasets", protected(h.ListDatasets))
	r.POST(prefix+"/datasets/upload", protected(h.UploadDataset))
	// More specific routes first
	r.GET(prefix+"/datasets/*/summary", protected(h.GetSummary))
	r.GET(prefix+"/datasets/*/preview", protected(h.GetPreview))
	r.GET(prefix+"/datasets/*/report.pdf", protected(h.GetReportPDF))
	r.GET(prefix+"/datasets/*/charts/*.png", protected(h.GetChart))
	// Generic dataset routes last
	r.GET(prefix+"/datasets/*", protected(h.GetDataset))
	r.DELETE(prefix+"/datasets/*", protected(h.DeleteDataset))

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
