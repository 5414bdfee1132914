package service

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-store/internal/config"
	"gitlab.com/dirk.krummacker/contact-store/internal/gateway"
	pub "gitlab.com/dirk.krummacker/contact-store/pkg/model"
)

// allowedOrderby are the allowed values for the 'orderby' URL parameter.
var allowedOrderby = []string{"name"}

// allowedAscending are the allowed values for the 'ascending' URL parameter.
var allowedAscending = []string{"true", "false"}

// Service exposes the contact store gateway as a REST API.
type Service struct {
	gw     *gateway.Gateway
	logger *zap.Logger
}

func New(gw *gateway.Gateway, logger *zap.Logger) *Service {
	return &Service{gw: gw, logger: logger}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func (s *Service) SetupHttpRouter(cfg config.GinConfig) *gin.Engine {
	var router *gin.Engine
	if strings.EqualFold(cfg.Logging, "off") {
		s.logger.Info("turning off HTTP request logging")
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}
	router.GET("/contacts", s.findContacts)
	router.POST("/contacts", s.createContact)
	router.PUT("/contacts/:id", s.updateContactByID)
	router.DELETE("/contacts/:id", s.deleteContactByID)
	return router
}

// findContacts responds with the list of all contacts as JSON. A contact with
// several phone numbers appears once per number.
//
// The URL parameter 'orderby' sorts the result. The only valid value is
// 'name'. If this URL parameter is not specified, the contacts are returned in
// the order of the store.
//
// If the URL parameter 'ascending' is set to 'false' then the sort order is
// reversed. If it is set to 'true', or if this URL parameter is omitted, the
// result starts with the lowest value.
//
// If the contacts cannot be read, the response is an empty list.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?orderby=name&ascending=false"
func (s *Service) findContacts(c *gin.Context) {
	order, success := parseOrderbyAndAscending(c)
	if !success {
		return
	}
	contacts, err := s.gw.List(c.Request.Context())
	if err != nil {
		s.logger.Warn("responding with empty contact list", zap.Error(err))
	}
	c.IndentedJSON(http.StatusOK, gateway.Sort(contacts, order))
}

// parseOrderbyAndAscending inspects the URL parameters and determines the
// sort order of the result set.
func parseOrderbyAndAscending(c *gin.Context) (order gateway.SortOrder, success bool) {
	orderby := c.Query("orderby")
	if orderby != "" && !contains(allowedOrderby, orderby) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid orderby parameter"})
		return gateway.StoreOrder, false
	}
	ascending := c.Query("ascending")
	if ascending == "" {
		ascending = "true"
	}
	if !contains(allowedAscending, ascending) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid ascending parameter"})
		return gateway.StoreOrder, false
	}
	if orderby == "" {
		return gateway.StoreOrder, true
	}
	if ascending == "true" {
		return gateway.Ascending, true
	}
	return gateway.Descending, true
}

// contains returns true if a string is present in a slice.
func contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}

// createContact creates a local-only contact with the name and number
// specified in the request's JSON. Clients fetch the list again to see it.
//
// Limitations:
// - If name or number are not specified then an empty string is stored.
// - Duplicates are not detected.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Hans Wurst", "number": "0815"}'
func (s *Service) createContact(c *gin.Context) {
	var submitted pub.ContactData
	if err := c.BindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	err := s.gw.Create(c.Request.Context(), valueOf(submitted.Name), valueOf(submitted.Number))
	if err != nil {
		s.abortWithStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{"message": "contact created"})
}

// updateContactByID replaces name and number of the contact whose ID value
// matches the id parameter of the request URL. Both values are mandatory.
// Updating an id that does not exist succeeds without effect.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"name": "Hans Wurst", "number": "81970"}'
func (s *Service) updateContactByID(c *gin.Context) {
	id, errConv := strconv.ParseInt(c.Param("id"), 10, 64)
	if errConv != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return
	}

	var submitted pub.ContactData
	if errBind := c.BindJSON(&submitted); errBind != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if submitted.Name == nil || submitted.Number == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "name and number are required"})
		return
	}

	if err := s.gw.Update(c.Request.Context(), id, *submitted.Name, *submitted.Number); err != nil {
		s.abortWithStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "contact updated"})
}

// deleteContactByID deletes the contact whose ID value matches the id
// parameter of the request URL, including all of its phone numbers. Deleting
// an id that does not exist succeeds without effect.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "DELETE"
func (s *Service) deleteContactByID(c *gin.Context) {
	id, errConv := strconv.ParseInt(c.Param("id"), 10, 64)
	if errConv != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return
	}

	if err := s.gw.Delete(c.Request.Context(), id); err != nil {
		s.abortWithStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "contact deleted"})
}

func (s *Service) abortWithStoreError(c *gin.Context, err error) {
	if errors.Is(err, gateway.ErrPermissionDenied) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "contact permissions denied"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "contact store write failed"})
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
