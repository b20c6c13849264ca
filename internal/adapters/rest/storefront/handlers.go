package storefront

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"go-storefront/internal/adapters/legacy"
	"go-storefront/internal/domain"
	"go-storefront/internal/services/basket"
)

// BasketView is the basket as shown to the buyer.
type BasketView struct {
	Items []domain.ProductView `json:"items"`
	Count int                  `json:"count"`
	Total decimal.Decimal      `json:"total"`
}

// FormView is the order form with the errors of its current step.
type FormView struct {
	Form   basket.Form       `json:"form"`
	Errors basket.FormErrors `json:"errors"`
}

// FieldUpdate sets a single order form field.
type FieldUpdate struct {
	Field basket.OrderField `json:"field"`
	Value string            `json:"value"`
}

func (s *Server) listProducts(c echo.Context) error {
	list, err := s.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, list)
}

func (s *Server) getProduct(c echo.Context) error {
	product, err := s.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (s *Server) createProduct(c echo.Context) error {
	var product domain.Product
	if err := c.Bind(&product); err != nil {
		return err
	}

	if err := s.catalog.Create(c.Request().Context(), &product); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c echo.Context) error {
	var product domain.Product
	if err := c.Bind(&product); err != nil {
		return err
	}
	product.ID = c.Param("id")

	if err := s.catalog.Update(c.Request().Context(), &product); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteProduct(c echo.Context) error {
	if err := s.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) placeOrder(c echo.Context) error {
	var req domain.OrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	order, err := s.orders.Place(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order.Result())
}

func (s *Server) listOrders(c echo.Context) error {
	orders, err := s.orders.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c echo.Context) error {
	order, err := s.orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (s *Server) listLegacyProducts(c echo.Context) error {
	list, err := s.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, legacy.FromProductList(list))
}

func (s *Server) placeLegacyOrder(c echo.Context) error {
	var req legacy.ApiOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	order, err := s.orders.Place(c.Request().Context(), req.Domain())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, legacy.FromOrderResult(order.Result()))
}

// session resolves the buyer's basket state and echoes its id back.
func (s *Server) session(c echo.Context) (*basket.State, error) {
	id, state, err := s.baskets.Session(c.Request().Context(), c.Request().Header.Get(SessionHeader))
	if err != nil {
		return nil, err
	}
	c.Response().Header().Set(SessionHeader, id)

	return state, nil
}

func basketView(state *basket.State) BasketView {
	return BasketView{
		Items: state.Basket(),
		Count: state.BasketCount(),
		Total: state.BasketTotal(),
	}
}

func (s *Server) getBasket(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, basketView(state))
}

func (s *Server) getCard(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	card, ok := state.Card(c.Param("id"))
	if !ok {
		return domain.ErrProductNotFound
	}

	return c.JSON(http.StatusOK, card)
}

func (s *Server) addToBasket(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	if err := state.AddToBasket(c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, basketView(state))
}

func (s *Server) deleteFromBasket(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	state.DeleteFromBasket(c.Param("id"))

	return c.JSON(http.StatusOK, basketView(state))
}

func (s *Server) clearBasket(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	state.ClearBasket()

	return c.JSON(http.StatusOK, basketView(state))
}

func (s *Server) getOrderForm(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, FormView{Form: state.Form(), Errors: state.ValidateOrder()})
}

func (s *Server) setOrderField(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	var update FieldUpdate
	if err := c.Bind(&update); err != nil {
		return err
	}

	errs, err := state.SetOrderField(update.Field, update.Value)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, FormView{Form: state.Form(), Errors: errs})
}

func (s *Server) clearOrderForm(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	state.ClearOrder()

	return c.JSON(http.StatusOK, FormView{Form: state.Form(), Errors: state.ValidateOrder()})
}

func (s *Server) checkout(c echo.Context) error {
	state, err := s.session(c)
	if err != nil {
		return err
	}

	if !state.BeginCheckout() {
		return echo.NewHTTPError(http.StatusConflict, "checkout already in progress")
	}
	defer state.EndCheckout()

	if state.BasketCount() == 0 {
		return domain.NewValidationError(domain.ErrEmptyOrder, "order has no items")
	}

	errs := state.ValidateOrder()
	for field, message := range state.ValidateContacts() {
		errs[field] = message
	}
	if len(errs) > 0 {
		return domain.NewValidationError(domain.ErrInvalidCustomer, joinFormErrors(errs))
	}

	order, err := s.orders.Place(c.Request().Context(), state.Order())
	if err != nil {
		return err
	}

	state.ClearBasket()
	state.ClearOrder()

	return c.JSON(http.StatusOK, order.Result())
}

func joinFormErrors(errs basket.FormErrors) string {
	messages := make([]string, 0, len(errs))
	for _, message := range errs {
		messages = append(messages, message)
	}
	sort.Strings(messages)

	return strings.Join(messages, "; ")
}
