package handlers

import (
	"strconv"

	"github.com/kosame/backend/internal/models"
)

func userIDString(u *models.User) string {
	return strconv.FormatUint(uint64(u.ID), 10)
}
