package api

import (
	"github.com/go-chi/chi/v5"
)

func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.health())

	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/leads", handlers.leadHandler.submitLead())
		r.Post("/logs", handlers.logHandler.ingestLogs())

		r.Get("/content/{slug}", handlers.contentHandler.getContent())

		r.Get("/products", handlers.productHandler.listProducts())
		r.Get("/products/{slug}", handlers.productHandler.getProductBySlug())

		r.Get("/gallery", handlers.galleryHandler.listGallery())

		r.Get("/service-areas", handlers.serviceAreaHandler.listServiceAreas())
		r.Get("/service-areas/check", handlers.serviceAreaHandler.checkServiceArea())

		r.Get("/testimonials", handlers.testimonialHandler.listApproved())
	})
}

func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/leads", handlers.leadHandler.listLeads())
		r.Get("/leads/{id}", handlers.leadHandler.getLead())
		r.Put("/leads/{id}", handlers.leadHandler.updateLead())
		r.Delete("/leads/{id}", handlers.leadHandler.deleteLead())

		r.Get("/content", handlers.contentHandler.listContent())
		r.Post("/content", handlers.contentHandler.createContent())
		r.Put("/content/{id}", handlers.contentHandler.updateContent())
		r.Delete("/content/{id}", handlers.contentHandler.deleteContent())

		r.Post("/products", handlers.productHandler.createProduct())
		r.Put("/products/{id}", handlers.productHandler.updateProduct())
		r.Delete("/products/{id}", handlers.productHandler.deleteProduct())

		r.Post("/gallery", handlers.galleryHandler.createGalleryItem())
		r.Put("/gallery/{id}", handlers.galleryHandler.updateGalleryItem())
		r.Delete("/gallery/{id}", handlers.galleryHandler.deleteGalleryItem())

		r.Post("/service-areas", handlers.serviceAreaHandler.createServiceArea())
		r.Put("/service-areas/{id}", handlers.serviceAreaHandler.updateServiceArea())
		r.Delete("/service-areas/{id}", handlers.serviceAreaHandler.deleteServiceArea())

		r.Get("/testimonials", handlers.testimonialHandler.listAll())
		r.Post("/testimonials", handlers.testimonialHandler.createTestimonial())
		r.Put("/testimonials/{id}", handlers.testimonialHandler.updateTestimonial())
		r.Delete("/testimonials/{id}", handlers.testimonialHandler.deleteTestimonial())

		r.Get("/logs", handlers.logHandler.recentLogs())

		r.Post("/images/generate", handlers.imageHandler.generateImages())
	})
}
