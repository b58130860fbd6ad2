package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"rex-crm-client/internal/errors"
	"rex-crm-client/internal/utils"
	"rex-crm-client/pkg/logger"
	"rex-crm-client/pkg/rex"

	"github.com/gin-gonic/gin"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// DescribeCache stores describe results between requests.
type DescribeCache interface {
	Get(ctx context.Context, service string) (*rex.Description, bool, error)
	Set(ctx context.Context, service string, d *rex.Description) error
	Invalidate(ctx context.Context) error
}

// ServiceLookup resolves Rex services by name.
type ServiceLookup interface {
	Services() []string
	Service(name string) (*rex.Service, bool)
}

// SearchResponse is a page of records plus links to its neighbours.
type SearchResponse struct {
	rex.SearchResult
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Links  utils.Links `json:"links"`
}

type ServiceHandler struct {
	services ServiceLookup
	cache    DescribeCache
}

// NewServiceHandler builds the service handler. cache may be nil to always ask Rex.
func NewServiceHandler(services ServiceLookup, cache DescribeCache) *ServiceHandler {
	return &ServiceHandler{services: services, cache: cache}
}

// ListServices godoc
// @Summary List Rex services
// @Tags Services
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /services [get]
func (h *ServiceHandler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.services.Services()})
}

// Describe godoc
// @Summary Describe a Rex service
// @Description Returns the service metadata, served from Redis when cached
// @Tags Services
// @Produce json
// @Param service path string true "Service name" example(Listings)
// @Success 200 {object} rex.Description
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /services/{service}/describe [get]
func (h *ServiceHandler) Describe(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if h.cache != nil {
		d, hit, err := h.cache.Get(ctx, svc.Name())
		if err != nil {
			logger.GlobalLogger.Errorf("describe cache lookup for %s failed: %v", svc.Name(), err)
		}
		if hit {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, d)
			return
		}
		c.Header("X-Cache", "MISS")
	}

	d, err := svc.Describe(ctx)
	if err != nil {
		c.Error(err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, svc.Name(), d); err != nil {
			logger.GlobalLogger.Errorf("failed to cache description of %s: %v", svc.Name(), err)
		}
	}
	c.JSON(http.StatusOK, d)
}

// Read godoc
// @Summary Read one record
// @Tags Services
// @Produce json
// @Param service path string true "Service name" example(Listings)
// @Param id path int true "Record id"
// @Param fields query string false "Comma separated field list"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /services/{service}/{id} [get]
func (h *ServiceHandler) Read(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(invalidParam("id", c.Param("id"), err))
		return
	}

	var opts []rex.Params
	if fields := splitList(c.Query("fields")); len(fields) > 0 {
		opts = append(opts, rex.Params{"fields": fields})
	}

	rec, err := svc.Read(c.Request.Context(), id, opts...)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Search godoc
// @Summary Search records of a service
// @Tags Services
// @Produce json
// @Param service path string true "Service name" example(Properties)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} SearchResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /services/{service} [get]
func (h *ServiceHandler) Search(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSearchLimit)))
	if err != nil || limit <= 0 || limit > maxSearchLimit {
		c.Error(invalidParam("limit", c.Query("limit"), err))
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.Error(invalidParam("offset", c.Query("offset"), err))
		return
	}

	res, err := svc.Search(c.Request.Context(), rex.Params{"limit": limit, "offset": offset})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{
		SearchResult: *res,
		Limit:        limit,
		Offset:       offset,
		Links:        utils.PageLinks(c.Request.URL.Path, offset, limit, res.Total, c.Request.URL.Query()),
	})
}

func (h *ServiceHandler) lookup(c *gin.Context) (*rex.Service, bool) {
	name := c.Param("service")
	svc, ok := h.services.Service(name)
	if !ok {
		c.Error(errors.NewAppError(fmt.Sprintf("unknown service %q", name), errors.MsgServiceNotFound, errors.ErrCodeServiceNotFound, http.StatusNotFound, nil))
		return nil, false
	}
	return svc, true
}

func invalidParam(name, value string, cause error) *errors.AppError {
	return errors.NewAppError(fmt.Sprintf("invalid %s %q", name, value), errors.MsgInvalidParameters, errors.ErrCodeInvalidParameters, http.StatusBadRequest, cause)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
