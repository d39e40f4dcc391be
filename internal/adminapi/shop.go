package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/shop"
	"github.com/ecomcore/storefront/internal/webserver"
)

func registerShopRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", addToCart)
	webserver.ApiPUT("/cart/items/:product_id", updateCartItem)
	webserver.ApiDELETE("/cart/items/:product_id", removeFromCart)
	webserver.ApiDELETE("/cart", clearCart)

	webserver.ApiPOST("/orders", placeOrder)
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPUT("/orders/:id/cancel", cancelOrder)
	webserver.AdminGET("/orders", listAllOrders)
	webserver.AdminPUT("/orders/:id/status", updateOrderStatus)

	webserver.ApiGET("/addresses", listAddresses)
	webserver.ApiPOST("/addresses", createAddress)
	webserver.ApiPUT("/addresses/:id", updateAddress)
	webserver.ApiDELETE("/addresses/:id", deleteAddress)

	webserver.ApiGET("/wishlist", getWishlist)
	webserver.ApiPOST("/wishlist/items", addToWishlist)
	webserver.ApiDELETE("/wishlist/items/:id", removeFromWishlist)
}

func getCart(c echo.Context) error {
	cart, err := svc.Shop.GetCart(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, cart)
}

func addToCart(c echo.Context) error {
	var in shop.AddToCartInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart parameters", nil)
	}
	cart, err := svc.Shop.AddToCart(c.Request().Context(), webserver.CurrentUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, cart)
}

func updateCartItem(c echo.Context) error {
	productID, err := parseIDParam(c, "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity", nil)
	}
	cart, err := svc.Shop.UpdateCartItem(c.Request().Context(), webserver.CurrentUserID(c), productID, payload.Quantity)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, cart)
}

func removeFromCart(c echo.Context) error {
	productID, err := parseIDParam(c, "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	quantity, _ := strconv.Atoi(c.QueryParam("quantity"))
	cart, err := svc.Shop.RemoveFromCart(c.Request().Context(), webserver.CurrentUserID(c), productID, quantity)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, cart)
}

func clearCart(c echo.Context) error {
	if err := svc.Shop.ClearCart(c.Request().Context(), webserver.CurrentUserID(c)); err != nil {
		return handleError(c, err)
	}
	return ok(c, nil)
}

func placeOrder(c echo.Context) error {
	var in shop.PlaceOrderInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", nil)
	}
	order, err := svc.Shop.PlaceOrder(c.Request().Context(), webserver.CurrentUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, order)
}

func listOrders(c echo.Context) error {
	orders, err := svc.Shop.ListOrders(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, orders)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := svc.Shop.GetOrder(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	// Buyers only see their own orders; the admin surface uses /admin/orders.
	if order.UserID != webserver.CurrentUserID(c) && webserver.CurrentRole(c) != webserver.RoleSuperAdmin {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
	}
	return ok(c, order)
}

func cancelOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := svc.Shop.CancelOrder(c.Request().Context(), webserver.CurrentUserID(c), id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, order)
}

func listAllOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	orders, total, err := svc.Shop.ListAllOrders(c.Request().Context(), page-1, pageSize)
	if err != nil {
		return handleError(c, err)
	}
	return paged(c, orders, total, page, pageSize)
}

func updateOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}
	order, err := svc.Shop.UpdateOrderStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, order)
}

func listAddresses(c echo.Context) error {
	addresses, err := svc.Shop.ListAddresses(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, addresses)
}

func createAddress(c echo.Context) error {
	var in shop.AddressInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse address parameters", nil)
	}
	address, err := svc.Shop.CreateAddress(c.Request().Context(), webserver.CurrentUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, address)
}

func updateAddress(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid address ID", nil)
	}
	var in shop.AddressInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse address parameters", nil)
	}
	address, err := svc.Shop.UpdateAddress(c.Request().Context(), webserver.CurrentUserID(c), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, address)
}

func deleteAddress(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid address ID", nil)
	}
	if err := svc.Shop.DeleteAddress(c.Request().Context(), webserver.CurrentUserID(c), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func getWishlist(c echo.Context) error {
	wishlist, err := svc.Shop.GetWishlist(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, wishlist)
}

func addToWishlist(c echo.Context) error {
	var payload struct {
		ProductID int64 `json:"product_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse wishlist parameters", nil)
	}
	wishlist, err := svc.Shop.AddToWishlist(c.Request().Context(), webserver.CurrentUserID(c), payload.ProductID)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, wishlist)
}

func removeFromWishlist(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid wishlist item ID", nil)
	}
	if err := svc.Shop.RemoveFromWishlist(c.Request().Context(), webserver.CurrentUserID(c), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
