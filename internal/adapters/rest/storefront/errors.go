package storefront

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"go-storefront/internal/adapters/legacy"
	catalogRepo "go-storefront/internal/adapters/repository/catalog"
	orderRepo "go-storefront/internal/adapters/repository/order"
	"go-storefront/internal/domain"
	"go-storefront/internal/services/basket"
	"go-storefront/internal/services/catalog"
)

// customHTTPErrorHandler answers every failed request with an OrderError
// body, or its legacy shape on legacy routes.
func customHTTPErrorHandler(rootError error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := findHTTPError(rootError)
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, rootError)
	}

	var body interface{} = domain.OrderError{Error: message}
	if isLegacy, _ := c.Get(legacyKey).(bool); isLegacy {
		body = legacy.FromOrderError(domain.OrderError{Error: message})
	}

	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func findHTTPError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	switch {
	case errors.Is(err, catalogRepo.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, catalogRepo.ErrProductAlreadyExists):
		return http.StatusConflict, "product already exists"
	case errors.Is(err, orderRepo.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, orderRepo.ErrOrderAlreadyExists):
		return http.StatusConflict, "order already exists"
	case errors.Is(err, domain.ErrNotForSale):
		return http.StatusBadRequest, "product is not for sale"
	case errors.Is(err, catalog.ErrInvalidProduct), errors.Is(err, basket.ErrUnknownField):
		return http.StatusBadRequest, err.Error()
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
