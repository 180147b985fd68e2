package gateway

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/marketmesh/marketmesh/internal/auth"
	"github.com/marketmesh/marketmesh/internal/config"
	"github.com/marketmesh/marketmesh/internal/logging"
)

// Gateway routes public traffic to the owning service. Order responses are
// stitched: reference stubs are expanded through the resolver registry.
type Gateway struct {
	issuer   *auth.TokenIssuer
	registry *ResolverRegistry
	logger   *logging.Logger

	identity *httputil.ReverseProxy
	catalog  *httputil.ReverseProxy
	orders   *httputil.ReverseProxy
}

// New creates the gateway from the configured service base URLs.
func New(cfg *config.Config, issuer *auth.TokenIssuer, registry *ResolverRegistry, logger *logging.Logger) (*Gateway, error) {
	g := &Gateway{issuer: issuer, registry: registry, logger: logger}

	var err error
	if g.identity, err = g.newProxy(cfg.IdentityService.BaseURL, false); err != nil {
		return nil, err
	}
	if g.catalog, err = g.newProxy(cfg.CatalogService.BaseURL, false); err != nil {
		return nil, err
	}
	if g.orders, err = g.newProxy(cfg.OrdersService.BaseURL, true); err != nil {
		return nil, err
	}
	return g, nil
}

// Register wires CORS, the token boundary and the proxy routes.
func (g *Gateway) Register(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(auth.Boundary(g.issuer))

	mount(r, "/api/auth", g.identity)
	mount(r, "/api/users", g.identity)
	mount(r, "/api/products", g.catalog)
	mount(r, "/api/orders", g.orders)
	mount(r, "/api/cart", g.orders)
}

// mount registers the prefix and everything under it.
func mount(r *gin.Engine, prefix string, proxy *httputil.ReverseProxy) {
	handler := func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}
	r.Any(prefix, handler)
	r.Any(prefix+"/*path", handler)
}

func (g *Gateway) newProxy(baseURL string, stitch bool) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		g.logger.Error("Upstream unreachable", logging.Fields{
			"target": target.Host,
			"path":   r.URL.Path,
			"error":  err.Error(),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
	}
	if stitch {
		proxy.ModifyResponse = g.stitch
	}
	return proxy, nil
}

// stitch expands reference stubs in successful JSON responses.
func (g *Gateway) stitch(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}

	expanded := g.registry.Expand(resp.Request.Context(), body)
	resp.Body = io.NopCloser(bytes.NewReader(expanded))
	resp.ContentLength = int64(len(expanded))
	resp.Header.Set("Content-Length", strconv.Itoa(len(expanded)))
	return nil
}
