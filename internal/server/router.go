package server

import (
	"net/http"

	_ "github.com/akolanti/pdfchat/cmd/api/docs"
	"github.com/akolanti/pdfchat/internal/handlers"
	"github.com/akolanti/pdfchat/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(h *handlers.Handler, chain *middleware.Chain, origins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORS(origins))

	initSwagger(r)
	//register prometheus
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", chain.Public(h.RootHandler))
	r.Post("/register", chain.Public(h.RegisterHandler))
	r.Post("/token", chain.Public(h.TokenHandler))
	r.Get("/options/languages", chain.Public(h.LanguagesHandler))
	r.Get("/options/answer-formats", chain.Public(h.AnswerFormatsHandler))

	r.Post("/upload-pdf", chain.Protected(h.UploadHandler))
	r.Get("/user-pdfs", chain.Protected(h.UserPdfsHandler))
	r.Get("/chat-history", chain.Protected(h.ChatHistoryHandler))
	r.Post("/chat", chain.Protected(h.ChatHandler))
	r.Delete("/delete-pdf", chain.Protected(h.DeletePdfHandler))
	r.Get("/pdf-image", chain.Protected(h.PdfImageHandler))
	return r
}

func initSwagger(r *chi.Mux) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
