// Package http provides http transport for district queries
package http

import (
	stdhttp "net/http"

	"mgnrega/internal/modkit/httpkit"
	"mgnrega/internal/services/districts/domain"
)

// Service is what the handlers need
type Service interface {
	domain.ServicePort
	domain.AdminPort
}

// Register mounts district endpoints on the given router
func Register(r httpkit.Router, s Service) {
	h := &handlers{svc: s}

	r.Route("/states/{state}", func(st httpkit.Router) {
		httpkit.Get(st, "/districts", h.names)
		httpkit.Get(st, "/districts/{district}", h.district)
		httpkit.PostJSON[domain.CompareInput](st, "/compare", h.compare)
		httpkit.Get(st, "/summary", h.summary)
	})

	// admin
	httpkit.Get(r, "/cache", h.cacheInfo)
	httpkit.PostJSON[domain.InvalidateInput](r, "/cache/invalidate", h.invalidate)
	httpkit.Delete(r, "/cache/{key}", h.drop)
}

type handlers struct{ svc Service }

// @Summary District names for a state, collated
// @Tags Districts
// @Produce json
// @Param state path string true "State name as it appears in the export"
// @Success 200 {array} string "ok"
// @Router /mgnrega/states/{state}/districts [get]
func (h *handlers) names(r *stdhttp.Request) (any, error) {
	return h.svc.DistrictNames(r.Context(), httpkit.Param(r, "state"))
}

// @Summary One district with up to twelve months of history
// @Tags Districts
// @Produce json
// @Param state path string true "State"
// @Param district path string true "District"
// @Success 200 {object} domain.DistrictRecord "ok"
// @Failure 404 {object} httpkit.Envelope "unknown district"
// @Router /mgnrega/states/{state}/districts/{district} [get]
func (h *handlers) district(r *stdhttp.Request) (any, error) {
	return h.svc.District(r.Context(), httpkit.Param(r, "state"), httpkit.Param(r, "district"))
}

// @Summary Side by side districts, sorted by name
// @Tags Districts
// @Accept json
// @Produce json
// @Param state path string true "State"
// @Param payload body domain.CompareInput true "Districts"
// @Success 200 {array} domain.DistrictRecord "ok"
// @Router /mgnrega/states/{state}/compare [post]
func (h *handlers) compare(r *stdhttp.Request, in domain.CompareInput) (any, error) {
	return h.svc.Compare(r.Context(), httpkit.Param(r, "state"), in.Districts)
}

// @Summary State totals over each district's latest month
// @Tags Districts
// @Produce json
// @Param state path string true "State"
// @Success 200 {object} domain.StateSummary "ok"
// @Router /mgnrega/states/{state}/summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	return h.svc.StateSummary(r.Context(), httpkit.Param(r, "state"))
}

func (h *handlers) cacheInfo(_ *stdhttp.Request) (any, error) {
	return h.svc.CacheInfo(), nil
}

// @Summary Drop one cache key, or every key when key is empty
// @Tags Cache
// @Accept json
// @Produce json
// @Param payload body domain.InvalidateInput true "Key"
// @Success 200 {object} domain.InvalidateResult "ok"
// @Router /mgnrega/cache/invalidate [post]
func (h *handlers) invalidate(r *stdhttp.Request, in domain.InvalidateInput) (any, error) {
	return h.svc.Invalidate(r.Context(), in.Key), nil
}

// @Summary Drop a single cache key
// @Tags Cache
// @Produce json
// @Param key path string true "Cache key, url escaped"
// @Success 200 {object} domain.InvalidateResult "ok"
// @Router /mgnrega/cache/{key} [delete]
func (h *handlers) drop(r *stdhttp.Request) (any, error) {
	return h.svc.Invalidate(r.Context(), httpkit.Param(r, "key")), nil
}
