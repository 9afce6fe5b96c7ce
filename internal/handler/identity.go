package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
)

var ErrNoIdentity = errors.New("no authenticated user in context")

// Identity returns the authenticated caller set by the auth middleware.
func Identity(c *gin.Context) (uuid.UUID, string, error) {
	userID, err := uuid.Parse(c.GetString(ContextUserID))
	if err != nil {
		return uuid.Nil, "", ErrNoIdentity
	}
	return userID, c.GetString(ContextUserEmail), nil
}
