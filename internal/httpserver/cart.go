package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"milstore/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type addLineRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	VariantID *int64 `json:"variantId"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type updateLineRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartResponse struct {
	Lines     []domain.CartLine `json:"lines"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"itemCount"`
}

type cartSummaryResponse struct {
	Total               decimal.Decimal `json:"total"`
	ItemCount           int             `json:"itemCount"`
	TotalDesi           decimal.Decimal `json:"totalDesi"`
	ShippingCost        decimal.Decimal `json:"shippingCost"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
	ShippingRate        string          `json:"shippingRate,omitempty"`
	ShippingRateMissing bool            `json:"shippingRateMissing,omitempty"`
}

func getCart(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := requestOwner(c)
		lines, err := svc.List(c.Request.Context(), owner)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		summary, err := svc.Summary(c.Request.Context(), owner)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if lines == nil {
			lines = []domain.CartLine{}
		}
		c.JSON(http.StatusOK, cartResponse{
			Lines:     lines,
			Total:     summary.Total,
			ItemCount: summary.ItemCount,
		})
	}
}

func getCartSummary(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := requestOwner(c)
		summary, err := svc.Summary(c.Request.Context(), owner)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		out := cartSummaryResponse{
			Total:     summary.Total,
			ItemCount: summary.ItemCount,
			TotalDesi: summary.TotalDesi,
		}
		cost, rate, err := svc.ShippingCost(c.Request.Context(), owner)
		switch {
		case err == nil:
			out.ShippingCost = cost
			if rate != nil {
				out.ShippingRate = rate.Name
			}
		case errors.Is(err, domain.ErrNoShippingRate):
			// Configuration gap: no tier covers this cart. Shipping is
			// zero but the client gets told instead of a silent free ride.
			out.ShippingRateMissing = true
		default:
			respondError(c, logger, err)
			return
		}
		out.GrandTotal = out.Total.Add(out.ShippingCost)
		c.JSON(http.StatusOK, out)
	}
}

func postCartLine(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := requestOwner(c)
		if owner.IsZero() {
			badRequest(c, "session or login required")
			return
		}
		var req addLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId and a positive quantity are required")
			return
		}
		line, err := svc.Add(c.Request.Context(), owner, req.ProductID, req.VariantID, req.Quantity)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, line)
	}
}

func patchCartLine(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := requestOwner(c)
		if owner.IsZero() {
			badRequest(c, "session or login required")
			return
		}
		lineID, ok := parseID(c, "lineID")
		if !ok {
			return
		}
		var req updateLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity is required")
			return
		}
		line, err := svc.UpdateQuantity(c.Request.Context(), owner, lineID, *req.Quantity)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if line == nil {
			// Quantity dropped to zero; the line is gone.
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func deleteCartLine(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := requestOwner(c)
		if owner.IsZero() {
			badRequest(c, "session or login required")
			return
		}
		lineID, ok := parseID(c, "lineID")
		if !ok {
			return
		}
		if err := svc.Remove(c.Request.Context(), owner, lineID); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deleteCart(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := requestOwner(c)
		if err := svc.Clear(c.Request.Context(), owner); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+param)
		return 0, false
	}
	return id, true
}
