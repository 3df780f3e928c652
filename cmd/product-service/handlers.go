package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/httpx"
	prod "github.com/MikeMC777/cod-delivery/internal/product"
	"github.com/MikeMC777/cod-delivery/internal/sqlq"
)

func invalid(field string) error {
	return apperr.Validation(apperr.CodeInvalidRequest, apperr.Details{"field": field})
}

// @Summary     List products
// @Tags        products
// @Produce     json
// @Param       q        query    string false "search in the three languages"
// @Param       category query    string false "category"
// @Param       in_stock query    bool   false "only products that can be ordered"
// @Param       limit    query    int    false "page size (max 100)"
// @Param       offset   query    int    false "offset"
// @Success     200      {object} prod.ListResponse
// @Failure     400      {object} httpx.ErrorResponse
// @Router      /products [get]
func listProductsHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := httpx.QueryInt(c, "limit", 20)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		offset, err := httpx.QueryInt(c, "offset", 0)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		limit, offset = sqlq.NormalizePage(limit, offset)
		inStock := false
		if raw := c.Query("in_stock"); raw != "" {
			if inStock, err = strconv.ParseBool(raw); err != nil {
				httpx.WriteError(c, invalid("in_stock"))
				return
			}
		}
		q := prod.Query{
			Q:        strings.TrimSpace(c.Query("q")),
			Category: strings.TrimSpace(c.Query("category")),
			InStock:  inStock,
			Limit:    limit,
			Offset:   offset,
		}
		if len([]rune(q.Q)) == 1 {
			// one letter matches half the catalog
			httpx.WriteError(c, invalid("q"))
			return
		}

		items, total, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if items == nil {
			items = []prod.Product{}
		}
		c.JSON(http.StatusOK, prod.ListResponse{
			Q: q.Q, Category: q.Category, Limit: limit, Offset: offset, Total: total, Items: items,
		})
	}
}

// @Summary     Get product
// @Tags        products
// @Produce     json
// @Param       id  path     string true "product id"
// @Success     200 {object} prod.Product
// @Failure     404 {object} httpx.ErrorResponse
// @Router      /products/{id} [get]
func getProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := uuid.Parse(id); err != nil {
			httpx.WriteError(c, invalid("id"))
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, prod.ErrNotFound) {
			httpx.WriteError(c, apperr.NotFound(apperr.CodeProductNotFound, apperr.Details{"product_id": id}))
			return
		}
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary     Adjust stock
// @Description Manual correction, recorded as an inventory movement.
// @Tags        admin
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       id   path     string                  true "product id"
// @Param       body body     prod.AdjustStockRequest true "adjustment"
// @Success     200  {object} prod.StockLevel
// @Failure     400  {object} httpx.ErrorResponse
// @Failure     404  {object} httpx.ErrorResponse
// @Router      /admin/products/{id}/stock [patch]
func adjustStockHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.FromContext(c)
		if !ok {
			httpx.WriteError(c, apperr.Unauthorized())
			return
		}
		id := c.Param("id")
		if _, err := uuid.Parse(id); err != nil {
			httpx.WriteError(c, invalid("id"))
			return
		}
		var req prod.AdjustStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.WriteError(c, httpx.BindError(err))
			return
		}

		level, err := repo.AdjustStock(c.Request.Context(), id, req.VariantID, req.Delta, p.UserID)
		switch {
		case errors.Is(err, prod.ErrNotFound):
			httpx.WriteError(c, apperr.NotFound(apperr.CodeProductNotFound, apperr.Details{"product_id": id}))
		case errors.Is(err, prod.ErrNegativeStock):
			httpx.WriteError(c, apperr.BusinessRule(apperr.CodeInsufficientStock, apperr.Details{
				"product_id": id, "requested": -req.Delta,
			}))
		case err != nil:
			httpx.WriteError(c, err)
		default:
			c.JSON(http.StatusOK, level)
		}
	}
}
