package utils

import "github.com/gin-gonic/gin"

// RespondWithError aborts the request with a JSON error body
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithErrorAndNotes aborts with an error body that also carries the
// notifications raised while handling the request
func RespondWithErrorAndNotes(c *gin.Context, status int, message string, notes any) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "notifications": notes})
}
