package http

import (
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vodachat/voda-server/internal/directory"
	"github.com/vodachat/voda-server/internal/proto"
)

// userLookupHandler serves read-only directory lookups over HTTP, mirroring
// the search_user request on the wire protocol.
func userLookupHandler(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := dir.Lookup(c.Request.Context(), c.Param("id"))
		if errors.Is(err, directory.ErrNotFound) {
			c.JSON(stdhttp.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(stdhttp.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}

		c.JSON(stdhttp.StatusOK, gin.H{
			"user_id": user.ID,
			"user": proto.UserInfo{
				Name:      user.DisplayName,
				Photo:     user.Photo,
				CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
			},
		})
	}
}
