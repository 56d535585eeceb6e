package httpserver

import (
	"log"
	"net/http"
	"strings"

	"milstore/internal/domain"
	customersvc "milstore/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	SessionID string `json:"sessionId"`
}

type loginResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	Customer     *domain.Customer `json:"customer"`
}

type sessionResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	SessionID    string `json:"sessionId"`
}

func postSession(svc SessionService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, refresh, sessionID, err := svc.Issue(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, sessionResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			SessionID:    sessionID,
		})
	}
}

func postSignup(svc CustomerService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid signup payload")
			return
		}
		customer, err := svc.Signup(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

// postLogin authenticates a customer and, when the request names the
// guest session it came from, folds that session's cart into the
// customer's cart.
func postLogin(customers CustomerService, carts CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password are required")
			return
		}
		access, refresh, customer, err := customers.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		sessionID := strings.TrimSpace(req.SessionID)
		if sessionID == "" {
			sessionID = strings.TrimSpace(c.GetHeader("X-Session-Id"))
		}
		if sessionID != "" {
			if err := carts.Merge(c.Request.Context(), sessionID, customer.ID); err != nil {
				respondError(c, logger, err)
				return
			}
		}

		c.JSON(http.StatusOK, loginResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			Customer:     customer,
		})
	}
}
