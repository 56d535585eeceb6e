package httpserver

import (
	"log"
	"net/http"

	"milstore/internal/domain"

	"github.com/gin-gonic/gin"
)

func getProducts(catalog CatalogRepo, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
	}
}

func getProduct(catalog CatalogRepo, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "productID")
		if !ok {
			return
		}
		product, err := catalog.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
