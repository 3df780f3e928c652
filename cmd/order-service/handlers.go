package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/cod"
	"github.com/MikeMC777/cod-delivery/internal/httpx"
	"github.com/MikeMC777/cod-delivery/internal/order"
)

type orderService interface {
	Create(ctx context.Context, p auth.Principal, req order.CreateOrderRequest) (*order.Order, error)
	Cancel(ctx context.Context, p auth.Principal, orderID string) (*order.Order, error)
	UpdateStatus(ctx context.Context, p auth.Principal, orderID string, req order.UpdateStatusRequest) (*order.Order, error)
	Get(ctx context.Context, p auth.Principal, orderID string) (*order.Order, error)
	ListMine(ctx context.Context, p auth.Principal, f order.ListFilter) ([]order.Order, int, error)
}

type codService interface {
	Collect(ctx context.Context, p auth.Principal, collectionID string, req cod.CollectRequest) (*cod.Collection, error)
	List(ctx context.Context, p auth.Principal, f cod.ListFilter) ([]cod.Collection, int, error)
	Mine(ctx context.Context, p auth.Principal, f cod.ListFilter) ([]cod.Collection, int, error)
	Summary(ctx context.Context, p auth.Principal, deliveryPersonID string) (*cod.Summary, error)
}

// caller returns the principal or writes 401.
func caller(c *gin.Context) (auth.Principal, bool) {
	p, ok := auth.FromContext(c)
	if !ok {
		httpx.WriteError(c, apperr.Unauthorized())
	}
	return p, ok
}

// uuidParam reads a path parameter that must be a UUID.
func uuidParam(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		httpx.WriteError(c, apperr.Validation(apperr.CodeInvalidRequest, apperr.Details{"field": name}))
		return "", false
	}
	return raw, true
}

// uuidQuery reads an optional UUID query parameter.
func uuidQuery(c *gin.Context, name string) (string, bool) {
	raw := c.Query(name)
	if raw == "" {
		return "", true
	}
	if _, err := uuid.Parse(raw); err != nil {
		httpx.WriteError(c, apperr.Validation(apperr.CodeInvalidRequest, apperr.Details{"field": name}))
		return "", false
	}
	return raw, true
}

// @Summary     Create order
// @Tags        orders
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       body body     order.CreateOrderRequest true "order"
// @Success     201  {object} order.Order
// @Failure     400  {object} httpx.ErrorResponse
// @Failure     500  {object} httpx.ErrorResponse
// @Router      /orders [post]
func createOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.WriteError(c, httpx.BindError(err))
			return
		}
		o, err := svc.Create(c.Request.Context(), p, req)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// @Summary     List my orders
// @Tags        orders
// @Security    BearerAuth
// @Produce     json
// @Param       page   query    int    false "page (from 1)"
// @Param       limit  query    int    false "page size (max 100)"
// @Param       status query    string false "order status"
// @Success     200    {object} order.ListResponse
// @Router      /orders/my-orders [get]
func listMyOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		page, err := httpx.ParsePage(c)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		f := order.ListFilter{Status: order.Status(c.Query("status")), Limit: page.Limit, Offset: page.Offset}
		items, total, err := svc.ListMine(c.Request.Context(), p, f)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, order.ListResponse{Page: page.Page, Limit: page.Limit, Total: total, Items: items})
	}
}

// @Summary     Get order
// @Tags        orders
// @Security    BearerAuth
// @Produce     json
// @Param       order_id path     string true "order id"
// @Success     200      {object} order.Order
// @Failure     404      {object} httpx.ErrorResponse
// @Router      /orders/{order_id} [get]
func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "order_id")
		if !ok {
			return
		}
		o, err := svc.Get(c.Request.Context(), p, id)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary     Cancel order
// @Description Restocks the items and cancels the COD collection.
// @Tags        orders
// @Security    BearerAuth
// @Produce     json
// @Param       order_id path     string true "order id"
// @Success     200      {object} order.Order
// @Failure     400      {object} httpx.ErrorResponse
// @Failure     404      {object} httpx.ErrorResponse
// @Router      /orders/{order_id}/cancel [patch]
func cancelOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "order_id")
		if !ok {
			return
		}
		o, err := svc.Cancel(c.Request.Context(), p, id)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "order cancelled", "order": o})
	}
}

// @Summary     Move order status
// @Tags        admin
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       order_id path     string                    true "order id"
// @Param       body     body     order.UpdateStatusRequest true "status"
// @Success     200      {object} order.Order
// @Failure     400      {object} httpx.ErrorResponse
// @Router      /admin/orders/{order_id}/status [patch]
func updateOrderStatusHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "order_id")
		if !ok {
			return
		}
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.WriteError(c, httpx.BindError(err))
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), p, id, req)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary     Collect cash on delivery
// @Tags        cod
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       collection_id path     string             true "collection id"
// @Param       body          body     cod.CollectRequest true "collection"
// @Success     200           {object} cod.Collection
// @Failure     400           {object} httpx.ErrorResponse
// @Failure     404           {object} httpx.ErrorResponse
// @Router      /cod/collections/{collection_id}/collect [post]
func collectHandler(svc codService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "collection_id")
		if !ok {
			return
		}
		var req cod.CollectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.WriteError(c, httpx.BindError(err))
			return
		}
		col, err := svc.Collect(c.Request.Context(), p, id, req)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "payment collected", "collection": col})
	}
}

func codFilter(c *gin.Context) (cod.ListFilter, httpx.Page, bool) {
	page, err := httpx.ParsePage(c)
	if err != nil {
		httpx.WriteError(c, err)
		return cod.ListFilter{}, page, false
	}
	status := cod.Status(c.Query("status"))
	switch status {
	case "", cod.StatusPending, cod.StatusCollected, cod.StatusCancelled:
	default:
		httpx.WriteError(c, apperr.Validation(apperr.CodeInvalidRequest, apperr.Details{"field": "status"}))
		return cod.ListFilter{}, page, false
	}
	return cod.ListFilter{Status: status, Limit: page.Limit, Offset: page.Offset}, page, true
}

// @Summary     List COD collections
// @Description Delivery staff only see orders assigned to them.
// @Tags        cod
// @Security    BearerAuth
// @Produce     json
// @Param       status             query    string false "pending, collected or cancelled"
// @Param       delivery_person_id query    string false "delivery person (admin only)"
// @Param       page               query    int    false "page (from 1)"
// @Param       limit              query    int    false "page size (max 100)"
// @Success     200                {object} cod.ListResponse
// @Router      /cod/collections [get]
func listCollectionsHandler(svc codService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		f, page, ok := codFilter(c)
		if !ok {
			return
		}
		if f.DeliveryPersonID, ok = uuidQuery(c, "delivery_person_id"); !ok {
			return
		}
		items, total, err := svc.List(c.Request.Context(), p, f)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, cod.ListResponse{Page: page.Page, Limit: page.Limit, Total: total, Items: items})
	}
}

// @Summary     My COD orders
// @Tags        cod
// @Security    BearerAuth
// @Produce     json
// @Param       status query    string false "pending, collected or cancelled"
// @Success     200    {object} cod.ListResponse
// @Router      /cod/my-cod-orders [get]
func myCollectionsHandler(svc codService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		f, page, ok := codFilter(c)
		if !ok {
			return
		}
		items, total, err := svc.Mine(c.Request.Context(), p, f)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, cod.ListResponse{Page: page.Page, Limit: page.Limit, Total: total, Items: items})
	}
}

// @Summary     COD summary
// @Tags        cod
// @Security    BearerAuth
// @Produce     json
// @Param       delivery_person_id query    string false "delivery person (admin only)"
// @Success     200                {object} cod.Summary
// @Router      /cod/stats/summary [get]
func codSummaryHandler(svc codService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		who, ok := uuidQuery(c, "delivery_person_id")
		if !ok {
			return
		}
		s, err := svc.Summary(c.Request.Context(), p, who)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
