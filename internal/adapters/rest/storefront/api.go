package storefront

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"go-storefront/internal/services/basket"
	"go-storefront/internal/services/catalog"
	"go-storefront/internal/services/order"
	"go-storefront/pkg/tracing"
)

// SessionHeader carries the basket session id in both directions.
const SessionHeader = "X-Session-ID"

const legacyKey = "legacy"

// Config wires the services behind the API.
type Config struct {
	Catalog       catalog.Service
	Orders        order.Service
	Baskets       *basket.Store
	Tracer        tracing.Tracer
	AdminUser     string
	AdminPassword string
}

type Server struct {
	e       *echo.Echo
	catalog catalog.Service
	orders  order.Service
	baskets *basket.Store
}

func (s *Server) ListenAndServe(port int) error {
	err := s.e.Start(fmt.Sprintf(":%d", port))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) Test(req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec.Result()
}

func NewServer(cfg Config) *Server {
	e := echo.New()
	e.HideBanner = true

	s := &Server{
		e:       e,
		catalog: cfg.Catalog,
		orders:  cfg.Orders,
		baskets: cfg.Baskets,
	}

	e.HTTPErrorHandler = customHTTPErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAuthorization, SessionHeader},
		ExposeHeaders: []string{SessionHeader},
	}))
	e.Use(echo.WrapMiddleware(tracing.NewTracingMiddleware(cfg.Tracer)))
	e.Use(handleErrorsInSpan)

	admin := middleware.BasicAuth(adminValidator(cfg.AdminUser, cfg.AdminPassword))

	e.GET("/product/", s.listProducts)
	e.GET("/product/:id", s.getProduct)
	e.POST("/product/", s.createProduct, admin)
	e.PUT("/product/:id", s.updateProduct, admin)
	e.DELETE("/product/:id", s.deleteProduct, admin)

	e.POST("/order", s.placeOrder)
	e.GET("/order/", s.listOrders, admin)
	e.GET("/order/:id", s.getOrder, admin)

	e.GET("/basket", s.getBasket)
	e.DELETE("/basket", s.clearBasket)
	e.GET("/basket/product/:id", s.getCard)
	e.POST("/basket/:id", s.addToBasket)
	e.DELETE("/basket/:id", s.deleteFromBasket)
	e.GET("/basket/order", s.getOrderForm)
	e.PATCH("/basket/order", s.setOrderField)
	e.DELETE("/basket/order", s.clearOrderForm)
	e.POST("/basket/checkout", s.checkout)

	e.GET("/legacy/product/", s.listLegacyProducts, legacyErrors)
	e.POST("/legacy/order", s.placeLegacyOrder, legacyErrors)

	return s
}

// handleErrorsInSpan renders handler errors before the tracing middleware
// records the response status.
func handleErrorsInSpan(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := next(c); err != nil {
			c.Error(err)
		}

		return nil
	}
}

func legacyErrors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(legacyKey, true)

		return next(c)
	}
}

func adminValidator(user, password string) middleware.BasicAuthValidator {
	return func(u, p string, _ echo.Context) (bool, error) {
		if password == "" {
			return false, nil
		}

		userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
		passwordOK := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1

		return userOK && passwordOK, nil
	}
}
