package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// meResponse describes the authenticated caller.
type meResponse struct {
	UserID       string   `json:"userID"`
	Capabilities []string `json:"capabilities"`
}

// getHealth godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// getMe godoc
// @Summary Show the authenticated caller
// @Description Returns the user id and capabilities carried by the token
// @Tags root
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /me [get]
func getMe(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	resp := meResponse{UserID: actor.ID, Capabilities: []string{}}
	for _, capability := range actor.Capabilities {
		resp.Capabilities = append(resp.Capabilities, string(capability))
	}
	c.JSON(http.StatusOK, resp)
}
