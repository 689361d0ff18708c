package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/taiwan"
)

/*
GET /zipcodes
- ?code=106            -> city + district for a postal code
- ?city=臺北市          -> districts with their codes
- no params            -> list of cities
Lookups that miss return empty values, not errors.
*/
func LookupZipcodes() gin.HandlerFunc {
	return func(c *gin.Context) {
		if code := strings.TrimSpace(c.Query("code")); code != "" {
			city, district := taiwan.FromCode(code)
			c.JSON(http.StatusOK, gin.H{
				"code":     code,
				"city":     city,
				"district": district,
			})
			return
		}

		if city := strings.TrimSpace(c.Query("city")); city != "" {
			c.JSON(http.StatusOK, gin.H{
				"city":      city,
				"districts": taiwan.Districts(city),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"cities": taiwan.Cities()})
	}
}
