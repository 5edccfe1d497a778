package api

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the route handlers. Nil handlers leave their routes
// unregistered.
type Handlers struct {
	Proxy    *VocabProxyHandler
	Profiles *ProfileHandler
	Sessions *SessionHandler
	Jobs     *JobHandler
	Sync     *SyncHandler
}

// RegisterRoutes mounts the API on r.
func RegisterRoutes(r chi.Router, h Handlers) {
	if h.Proxy != nil {
		r.Post("/ai-vocab", h.Proxy.Generate)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/profiles/{"+profileParam+"}", func(r chi.Router) {
			if h.Profiles != nil {
				r.Post("/open", h.Profiles.Open)
				r.Get("/entries", h.Profiles.ListEntries)
				r.Post("/entries", h.Profiles.AddEntry)
				r.Delete("/entries/{key}", h.Profiles.RemoveEntry)
				r.Post("/merge", h.Profiles.Merge)
				r.Post("/import", h.Profiles.Import)
				r.Get("/export", h.Profiles.Export)
			}

			if h.Sessions != nil {
				r.Route("/session", func(r chi.Router) {
					r.Get("/", h.Sessions.State)
					r.Post("/", h.Sessions.Start)
					r.Post("/reveal", h.Sessions.Reveal)
					r.Post("/judge", h.Sessions.Judge)
					r.Post("/swipe", h.Sessions.Swipe)
					r.Post("/advance", h.Sessions.Advance)
					r.Post("/close", h.Sessions.Close)
				})
			}

			if h.Jobs != nil {
				r.Post("/generate", h.Jobs.Generate)
			}
			if h.Sync != nil {
				r.Post("/sync", h.Sync.Sync)
			}
		})

		if h.Jobs != nil {
			r.Get("/jobs/{id}", h.Jobs.GetJob)
		}
	})
}
