package handler

import "fmt"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type updateUserRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

type listMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listLinks struct {
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

type listUsersResponse struct {
	Data  []userResponse `json:"data"`
	Meta  listMeta       `json:"meta"`
	Links listLinks      `json:"links"`
}

// normalizePage bounds the raw query values: page >= 1, 1 <= limit <= 100,
// defaults 1/10. The services expect an already-normalized pair.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func pageLink(page, limit int) string {
	return fmt.Sprintf("/api/v1/users?page=%d&limit=%d", page, limit)
}
