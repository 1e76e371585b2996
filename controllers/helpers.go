package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/middleware"
)

const msgInvalidPayload = "Invalid payload"

func respondError(ctx *gin.Context, err error) {
	apperrors.Respond(ctx, err)
}

// currentUserID aborts with 401 when the request carries no authenticated user.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	return id, true
}

// uintParam parses a positive numeric path parameter, answering 400 with message otherwise.
func uintParam(ctx *gin.Context, name, message string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || v == 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
		return 0, false
	}
	return uint(v), true
}
