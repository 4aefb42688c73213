// Package handlers implements the board's HTTP API on gin.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"eisenhower-board/internal/models"
	"eisenhower-board/internal/repository"

	"github.com/gin-gonic/gin"
)

// respondError writes the {"detail": ...} body every non-2xx response uses.
func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusNotFound, "IDが不正です")
		return 0, false
	}
	return id, true
}

// withOwners attaches each task's owner from staff. Tasks whose owner no
// longer exists keep a nil owner.
func withOwners(tasks []models.Task, staff []models.Staff) []models.Task {
	owners := repository.StaffMap(staff)
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if owner, ok := owners[t.OwnerID]; ok {
			owner := owner
			t.Owner = &owner
		}
		out[i] = t
	}
	return out
}

func attachOwner(ctx context.Context, repo repository.Repository, task *models.Task) error {
	owner, err := repo.GetStaff(ctx, task.OwnerID)
	if errors.Is(err, repository.ErrStaffNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	task.Owner = owner
	return nil
}
